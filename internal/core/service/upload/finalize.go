package upload

import (
	"encoding/json"
	"fileupload/internal/core/domain"
	"fileupload/internal/filex"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// finalize runs once the barrier drains; an aborted session never reports success
func (s *session) finalize() {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		s.logger.Info("discarding results of aborted session")
		return
	}
	result := &domain.UploadResult{Files: make([]domain.FileRecord, 0, len(s.files))}
	for _, entry := range s.files {
		switch entry.state {
		case domain.FileStatePersisted, domain.FileStateDerivativesPending:
			s.decorate(entry.record)
			entry.state = domain.FileStateFinalized
		}
		result.Files = append(result.Files, entry.record.Clone())
	}
	redirect := s.redirect
	s.mu.Unlock()

	for i := range result.Files {
		s.emit(domain.LifecycleEvent{Type: domain.EventTypeEnd, File: &result.Files[i]})
	}

	outcome := domain.Outcome{Result: result}
	if redirect != "" {
		location, err := RedirectURL(redirect, result)
		if err != nil {
			s.logger.Error("failed to build redirect", "error", err)
		} else {
			outcome.Redirect = location
		}
	}
	s.deliver(outcome)
}

// decorate sets the public URLs; a version URL is only set if its file exists
func (s *session) decorate(record *domain.FileRecord) {
	record.URL = s.profile.FileURL(record.Name)
	record.DeleteURL = s.profile.DeleteURL(s.opts.DeleteBaseURL, record.Name)
	record.DeleteType = s.profile.DeleteType
	if !s.profile.IsImage(record.Name) {
		return
	}
	for _, version := range s.profile.ImageVersions {
		if filex.IsRegular(filepath.Join(s.versionDir(version.Name), record.Name)) {
			record.Versions[version.Name] = s.profile.VersionURL(version.Name, record.Name)
		}
	}
}

// RedirectURL substitutes the first "%s" of template with the escaped JSON result
func RedirectURL(template string, result *domain.UploadResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	escaped := strings.ReplaceAll(url.QueryEscape(string(data)), "+", "%20")
	return strings.Replace(template, "%s", escaped, 1), nil
}
