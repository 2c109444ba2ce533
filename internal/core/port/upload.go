package port

import (
	"context"
	"fileupload/internal/core/domain"
	"net/http"
)

// FilePart describes a file part as soon as the decoder sees its headers
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	TempPath    string
}

// FormEvents is the event stream produced by decoding one request body
type FormEvents interface {
	// FileBegin is called before the part's bytes are read; the returned handle identifies the file
	FileBegin(part FilePart) int
	Field(name, value string)
	// File is called once the part's bytes are fully written to its temp path
	File(handle int, size int64)
	Progress(received int64)
	End()
	Aborted()
	Error(err error)
}

// FormDecoder streams a request body into FormEvents, spooling file parts below tmpDir
type FormDecoder interface {
	Decode(ctx context.Context, r *http.Request, tmpDir string, events FormEvents)
}

// SessionOptions configures one upload session
type SessionOptions struct {
	Profile string
	// DeleteBaseURL is the URL prefix clients use to destroy files
	DeleteBaseURL string
	Listener      EventListener
	// Terminate forcibly stops the transport; called at most once by the size watchdog
	Terminate func(cause error)
	// OnComplete receives the terminal outcome exactly once
	OnComplete func(outcome domain.Outcome)
}

// UploadSession is one request's worth of upload state
type UploadSession interface {
	FormEvents
	// Wait blocks until the terminal outcome is delivered
	Wait() domain.Outcome
}

// UploadService handles uploads and deletions against configured profiles
type UploadService interface {
	Begin(ctx context.Context, opts SessionOptions) (UploadSession, error)
	Destroy(ctx context.Context, profile, name string, listener EventListener) (bool, error)
	Profile(name string) (domain.UploadProfile, error)
}
