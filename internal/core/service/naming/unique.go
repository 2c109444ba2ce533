package naming

import (
	"fileupload/internal/core/port"
	"fileupload/internal/filex"

	"github.com/google/uuid"
)

type uniqueNamer struct{}

// NewUniqueNamer returns a Namer that prefixes names with a random UUID and never looks at the directory
func NewUniqueNamer() port.Namer {
	return uniqueNamer{}
}

func (uniqueNamer) Reserve(dir, candidate string) (string, error) {
	if err := filex.EnsureDir(dir); err != nil {
		return "", err
	}
	return uuid.NewString() + "_" + Sanitize(candidate), nil
}

func (uniqueNamer) Release(string, string) error {
	return nil
}
