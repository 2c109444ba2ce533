package naming

import (
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"path"
	"strings"
)

// fallbackName replaces candidates that sanitize to nothing
const fallbackName = "file"

// New returns the Namer for policy, defaulting to the counter policy
func New(policy domain.NamingPolicy) port.Namer {
	if policy == domain.NamingPolicyUnique {
		return NewUniqueNamer()
	}
	return NewCounterNamer()
}

// Sanitize strips any directory component and leading dots from name
func Sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimLeft(name, ".")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "/" {
		return fallbackName
	}
	return name
}
