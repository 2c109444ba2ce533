package upload

import (
	"context"
	"fileupload/internal/core/barrier"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/naming"
	"fileupload/internal/filex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

// redirectField is the form field carrying the redirect template
const redirectField = "redirect"

type fileEntry struct {
	record   *domain.FileRecord
	state    domain.FileState
	tempPath string
	// reserveErr is set when no name could be reserved
	reserveErr error
}

type session struct {
	profile   domain.UploadProfile
	namer     port.Namer
	generator port.DerivativeGenerator
	listener  port.EventListener
	logger    *slog.Logger
	opts      port.SessionOptions
	ctx       context.Context
	barrier   *barrier.Barrier

	mu         sync.Mutex
	files      []*fileEntry
	redirect   string
	aborted    bool
	terminated bool

	decodeOnce    sync.Once
	terminateOnce sync.Once
	deliverOnce   sync.Once
	done          chan struct{}
	outcome       domain.Outcome
}

// FileBegin creates the record and reserves its name before any byte of the file is stored
func (s *session) FileBegin(part port.FilePart) int {
	entry := &fileEntry{state: domain.FileStateBegan, tempPath: part.TempPath}

	name, err := s.namer.Reserve(s.profile.UploadDir, part.FileName)
	if err != nil {
		s.logger.Error("failed to reserve upload name", "file", part.FileName, "error", err)
		entry.reserveErr = err
		name = naming.Sanitize(part.FileName)
	}
	entry.record = domain.NewFileRecord(part.FileName, name, part.ContentType)

	s.mu.Lock()
	handle := len(s.files)
	s.files = append(s.files, entry)
	snapshot := entry.record.Clone()
	s.mu.Unlock()

	s.emit(domain.LifecycleEvent{Type: domain.EventTypeBegin, File: &snapshot})
	return handle
}

// Field records form fields the session understands
func (s *session) Field(name, value string) {
	if name != redirectField {
		return
	}
	s.mu.Lock()
	s.redirect = value
	s.mu.Unlock()
}

// File validates a fully received file and dispatches its persistence
func (s *session) File(handle int, size int64) {
	s.mu.Lock()
	if handle < 0 || handle >= len(s.files) {
		s.mu.Unlock()
		return
	}
	entry := s.files[handle]
	if s.terminated {
		s.mu.Unlock()
		_ = filex.RemoveIfExists(entry.tempPath)
		return
	}
	if s.aborted || entry.state != domain.FileStateBegan {
		s.mu.Unlock()
		_ = filex.RemoveIfExists(entry.tempPath)
		return
	}

	entry.record.Size = size
	entry.state = domain.FileStateValidating
	err := s.profile.Validate(size, entry.record.OriginalName)
	if entry.reserveErr != nil {
		err = domain.ErrPersistFailed
	}
	if err != nil {
		entry.state = domain.FileStateRejected
		entry.record.Error = err.Error()
		s.mu.Unlock()
		s.discard(entry)
		return
	}

	entry.state = domain.FileStatePersisting
	s.barrier.Enter()
	s.mu.Unlock()

	go s.persist(entry)
}

func (s *session) persist(entry *fileEntry) {
	defer s.barrier.Leave()

	name := entry.record.Name
	dst := filepath.Join(s.profile.UploadDir, name)
	err := filex.MoveFile(entry.tempPath, dst)

	s.mu.Lock()
	if entry.state == domain.FileStateAborted {
		s.mu.Unlock()
		if err == nil {
			_ = filex.RemoveIfExists(dst)
		} else {
			_ = s.namer.Release(s.profile.UploadDir, name)
		}
		return
	}
	if err != nil {
		entry.state = domain.FileStateRejected
		entry.record.Error = domain.ErrPersistFailed.Error()
		s.mu.Unlock()
		s.logger.Error("failed to persist upload", "file", name, "error", err)
		s.discard(entry)
		return
	}
	entry.state = domain.FileStatePersisted
	if s.profile.IsImage(name) && len(s.profile.ImageVersions) > 0 {
		entry.state = domain.FileStateDerivativesPending
	}
	s.mu.Unlock()

	if s.generator == nil {
		return
	}
	s.generator.Generate(s.ctx, port.DerivativeJob{
		Profile:    s.profile.Name,
		FileName:   name,
		SourcePath: dst,
		Versions:   s.profile.ImageVersions,
		ImageTypes: s.profile.ImageTypes,
		VersionDir: s.versionDir,
	}, s.barrier)
}

// Progress enforces the max post size; crossing it terminates the transport once
func (s *session) Progress(received int64) {
	if s.profile.MaxPostSize <= 0 || received <= s.profile.MaxPostSize {
		return
	}
	s.terminateOnce.Do(func() {
		s.mu.Lock()
		s.terminated = true
		s.mu.Unlock()

		s.logger.Warn("request exceeds max post size", "received", received, "max", s.profile.MaxPostSize)
		if s.opts.Terminate != nil {
			s.opts.Terminate(domain.ErrRequestTooLarge)
		}
	})
}

// End releases the decoding phase's hold on the barrier; a terminated request never completes
func (s *session) End() {
	s.mu.Lock()
	terminated := s.terminated
	s.mu.Unlock()
	if terminated {
		s.abort(domain.ErrTransportAborted, true)
		return
	}
	s.decodeOnce.Do(s.barrier.Leave)
}

// Aborted cleans up files that were not persisted and reports the transport failure
func (s *session) Aborted() {
	s.abort(domain.ErrTransportAborted, true)
}

// Error reports a decoder failure and cleans up like an abort
func (s *session) Error(err error) {
	s.emit(domain.LifecycleEvent{Type: domain.EventTypeError, Error: err.Error()})
	s.abort(fmt.Errorf("%w: %w", domain.ErrMalformedRequest, err), false)
}

// Wait blocks until the terminal outcome is delivered
func (s *session) Wait() domain.Outcome {
	<-s.done
	return s.outcome
}

func (s *session) abort(cause error, emitAbort bool) {
	type aborted struct {
		entry    *fileEntry
		previous domain.FileState
		snapshot domain.FileRecord
	}

	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return
	}
	s.aborted = true
	if s.terminated {
		cause = fmt.Errorf("%w: %w", cause, domain.ErrRequestTooLarge)
	}
	var affected []aborted
	for _, entry := range s.files {
		switch entry.state {
		case domain.FileStateBegan, domain.FileStatePersisting:
			affected = append(affected, aborted{entry: entry, previous: entry.state})
			entry.state = domain.FileStateAborted
			affected[len(affected)-1].snapshot = entry.record.Clone()
		}
	}
	s.mu.Unlock()

	s.logger.Warn("upload session aborted", "files", len(affected), "cause", cause)
	for _, a := range affected {
		_ = filex.RemoveIfExists(a.entry.tempPath)
		if a.previous == domain.FileStateBegan && a.entry.reserveErr == nil {
			_ = s.namer.Release(s.profile.UploadDir, a.entry.record.Name)
		}
		if emitAbort {
			s.emit(domain.LifecycleEvent{Type: domain.EventTypeAbort, File: &a.snapshot})
		}
	}

	s.deliver(domain.Outcome{Err: cause})
	s.decodeOnce.Do(s.barrier.Leave)
}

// discard removes the temp data and the name reservation of a rejected file
func (s *session) discard(entry *fileEntry) {
	if err := filex.RemoveIfExists(entry.tempPath); err != nil {
		s.logger.Warn("failed to remove temp file", "path", entry.tempPath, "error", err)
	}
	if entry.reserveErr == nil {
		if err := s.namer.Release(s.profile.UploadDir, entry.record.Name); err != nil {
			s.logger.Warn("failed to release name", "file", entry.record.Name, "error", err)
		}
	}
}

func (s *session) versionDir(version string) string {
	return filepath.Join(s.profile.UploadDir, version)
}

func (s *session) emit(event domain.LifecycleEvent) {
	event.Profile = s.profile.Name
	event.At = time.Now()
	s.listener.OnEvent(event)
}

func (s *session) deliver(outcome domain.Outcome) {
	s.deliverOnce.Do(func() {
		s.outcome = outcome
		if s.opts.OnComplete != nil {
			s.opts.OnComplete(outcome)
		}
		close(s.done)
	})
}
