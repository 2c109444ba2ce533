package domain

import (
	"encoding/json"
	"maps"
)

// FileState is the state of a single file inside an upload session
type FileState string

const (
	FileStateBegan              FileState = "began"
	FileStateValidating         FileState = "validating"
	FileStateRejected           FileState = "rejected"
	FileStatePersisting         FileState = "persisting"
	FileStatePersisted          FileState = "persisted"
	FileStateDerivativesPending FileState = "derivatives_pending"
	FileStateFinalized          FileState = "finalized"
	FileStateAborted            FileState = "aborted"
)

// FileRecord is one uploaded file as reported to clients and listeners
type FileRecord struct {
	Name         string
	OriginalName string
	Size         int64
	Type         string
	Error        string
	URL          string
	DeleteURL    string
	DeleteType   string
	// Versions maps a version name to the public URL of its derivative
	Versions map[string]string
}

// NewFileRecord creates a FileRecord for a file that has just begun
func NewFileRecord(originalName, assignedName, mimeType string) *FileRecord {
	return &FileRecord{
		Name:         assignedName,
		OriginalName: originalName,
		Type:         mimeType,
		Versions:     map[string]string{},
	}
}

// Clone returns a deep copy safe to hand out of the owning session
func (f *FileRecord) Clone() FileRecord {
	c := *f
	c.Versions = maps.Clone(f.Versions)
	if c.Versions == nil {
		c.Versions = map[string]string{}
	}
	return c
}

// MarshalJSON flattens version URLs into "<version>Url" keys
func (f FileRecord) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name": f.Name,
		"size": f.Size,
		"type": f.Type,
	}
	if f.OriginalName != "" {
		out["originalName"] = f.OriginalName
	}
	if f.Error != "" {
		out["error"] = f.Error
	}
	if f.URL != "" {
		out["url"] = f.URL
	}
	if f.DeleteURL != "" {
		out["deleteUrl"] = f.DeleteURL
		out["deleteType"] = f.DeleteType
	}
	for version, url := range f.Versions {
		out[version+"Url"] = url
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON
func (f *FileRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FileRecord{Versions: map[string]string{}}
	fields := map[string]any{
		"name":         &f.Name,
		"originalName": &f.OriginalName,
		"size":         &f.Size,
		"type":         &f.Type,
		"error":        &f.Error,
		"url":          &f.URL,
		"deleteUrl":    &f.DeleteURL,
		"deleteType":   &f.DeleteType,
	}
	for key, value := range raw {
		if target, ok := fields[key]; ok {
			if err := json.Unmarshal(value, target); err != nil {
				return err
			}
			continue
		}
		if len(key) > 3 && key[len(key)-3:] == "Url" {
			var url string
			if err := json.Unmarshal(value, &url); err != nil {
				return err
			}
			f.Versions[key[:len(key)-3]] = url
		}
	}
	return nil
}

// UploadResult is the payload delivered for a finalized session
type UploadResult struct {
	Files []FileRecord `json:"files"`
}

// Outcome is the terminal result of an upload session
type Outcome struct {
	Result   *UploadResult
	Redirect string
	Err      error
}
