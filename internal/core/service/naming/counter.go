package naming

import (
	"errors"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/filex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

const maxCounterAttempts = 10000

var counterPattern = regexp.MustCompile(`^(.*?)(?: \((\d+)\))?(\.[^.]+)?$`)

type counterNamer struct{}

// NewCounterNamer returns a Namer that appends " (n)" before the extension and
// claims the chosen name with an exclusive zero-length placeholder
func NewCounterNamer() port.Namer {
	return counterNamer{}
}

// Reserve claims the first free name derived from candidate
func (counterNamer) Reserve(dir, candidate string) (string, error) {
	if err := filex.EnsureDir(dir); err != nil {
		return "", err
	}
	name := Sanitize(candidate)
	for i := 0; i < maxCounterAttempts; i++ {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if err := f.Close(); err != nil {
				return "", fmt.Errorf("failed to close placeholder: %w", err)
			}
			return name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to reserve %s: %w", name, err)
		}
		name = NextName(name)
	}
	return "", fmt.Errorf("%w: %s", domain.ErrNamingExhausted, candidate)
}

// Release removes the placeholder of name if nothing was written to it
func (counterNamer) Release(dir, name string) error {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !info.Mode().IsRegular() || info.Size() != 0 {
		return nil
	}
	return filex.RemoveIfExists(path)
}

// NextName increments the counter suffix: "photo.png" -> "photo (1).png" -> "photo (2).png"
func NextName(name string) string {
	m := counterPattern.FindStringSubmatch(name)
	n := 0
	if m[2] != "" {
		n, _ = strconv.Atoi(m[2])
	}
	return fmt.Sprintf("%s (%d)%s", m[1], n+1, m[3])
}
