package domain

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// NamingPolicy selects how colliding upload names are resolved
type NamingPolicy string

const (
	// NamingPolicyCounter appends " (n)" before the extension until the name is free
	NamingPolicyCounter NamingPolicy = "counter"
	// NamingPolicyUnique prefixes every name with a fresh unique identifier
	NamingPolicyUnique NamingPolicy = "unique"
)

// UploadProfile is a named upload area with its own directories, limits and versions
type UploadProfile struct {
	Name            string
	UploadDir       string
	UploadURL       string
	TargetDir       string
	TargetURL       string
	TmpDir          string
	MinFileSize     int64
	MaxFileSize     int64
	MaxPostSize     int64
	AcceptFileTypes *regexp.Regexp
	ImageTypes      *regexp.Regexp
	SafeFileTypes   *regexp.Regexp
	ImageVersions   []ImageVersionSpec
	DeleteType      string
	NamingPolicy    NamingPolicy
}

// Validate checks the size bounds then the accepted type; the first failure wins
func (p UploadProfile) Validate(size int64, name string) error {
	switch {
	case p.MinFileSize > 0 && size < p.MinFileSize:
		return ErrFileSizeTooSmall
	case p.MaxFileSize > 0 && size > p.MaxFileSize:
		return ErrFileSizeTooBig
	case p.AcceptFileTypes != nil && !p.AcceptFileTypes.MatchString(name):
		return ErrInvalidFileType
	}
	return nil
}

// IsImage reports whether derivatives should be generated for name
func (p UploadProfile) IsImage(name string) bool {
	return p.ImageTypes != nil && p.ImageTypes.MatchString(name)
}

// IsSafe reports whether name may be served inline
func (p UploadProfile) IsSafe(name string) bool {
	return p.SafeFileTypes != nil && p.SafeFileTypes.MatchString(name)
}

// FileURL is the public URL of a stored file
func (p UploadProfile) FileURL(name string) string {
	return joinURL(p.UploadURL, url.PathEscape(name))
}

// VersionURL is the public URL of a derivative
func (p UploadProfile) VersionURL(version, name string) string {
	return joinURL(p.UploadURL, url.PathEscape(version), url.PathEscape(name))
}

// DeleteURL is the URL clients call to destroy a stored file
func (p UploadProfile) DeleteURL(baseURL, name string) string {
	u := joinURL(baseURL, url.PathEscape(name))
	if p.DeleteType == "POST" {
		u += "?_method=DELETE"
	}
	return u
}

// TargetFileURL is the public URL of a file moved below the target root
func (p UploadProfile) TargetFileURL(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	return joinURL(p.TargetURL, escaped...)
}

func joinURL(base string, elems ...string) string {
	return strings.TrimSuffix(base, "/") + "/" + path.Join(elems...)
}

// TempFilePrefix prefixes every spooled upload in a profile's TmpDir
const TempFilePrefix = "upload_"
