package domain

import "encoding/json"

// MoveResult describes a file after it was relocated
type MoveResult struct {
	Filename string
	URL      string
	Versions map[string]string
}

// MarshalJSON flattens version URLs into "<version>Url" keys
func (m MoveResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"filename": m.Filename,
		"url":      m.URL,
	}
	for version, url := range m.Versions {
		out[version+"Url"] = url
	}
	return json.Marshal(out)
}
