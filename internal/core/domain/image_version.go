package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FitMode tells the transform tool how to honour a target geometry
type FitMode string

const (
	// FitModeFit preserves aspect ratio and stays within the bounds
	FitModeFit FitMode = ""
	// FitModeExact forces the exact dimensions
	FitModeExact FitMode = "!"
	// FitModeFill preserves aspect ratio and covers the bounds
	FitModeFill FitMode = "^"
)

// Dimension is a target width or height with an optional forcing modifier
type Dimension struct {
	Value int
	Mode  FitMode
}

// ParseDimension parses "80", "80!" or "80^"; an empty string means unconstrained
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{}, nil
	}
	var d Dimension
	switch {
	case strings.HasSuffix(s, string(FitModeExact)):
		d.Mode = FitModeExact
	case strings.HasSuffix(s, string(FitModeFill)):
		d.Mode = FitModeFill
	}
	value, err := strconv.Atoi(strings.TrimSuffix(s, string(d.Mode)))
	if err != nil || value < 0 {
		return Dimension{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	d.Value = value
	return d, nil
}

// String renders the dimension back to its configuration form
func (d Dimension) String() string {
	if d.Value == 0 {
		return ""
	}
	return strconv.Itoa(d.Value) + string(d.Mode)
}

// UnmarshalText lets dimensions be read from YAML scalars such as 80 or "80^"
func (d *Dimension) UnmarshalText(text []byte) error {
	parsed, err := ParseDimension(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ImageVersionSpec describes one derivative to generate for image uploads
type ImageVersionSpec struct {
	Name   string    `yaml:"name" json:"name"`
	Width  Dimension `yaml:"width" json:"width"`
	Height Dimension `yaml:"height" json:"height"`
	// ImageArgs are extra transform arguments; nil means DefaultImageArgs
	ImageArgs []string `yaml:"imageArgs" json:"imageArgs,omitempty"`
}

// DefaultImageArgs normalizes orientation when a version supplies no arguments
var DefaultImageArgs = []string{"-auto-orient"}

// Mode returns the forcing modifier of the version; a modifier on either side applies to both
func (v ImageVersionSpec) Mode() FitMode {
	if v.Width.Mode != FitModeFit {
		return v.Width.Mode
	}
	return v.Height.Mode
}

// Geometry renders the version as a resize geometry, e.g. "80x80^"
func (v ImageVersionSpec) Geometry() string {
	var b strings.Builder
	if v.Width.Value > 0 {
		b.WriteString(strconv.Itoa(v.Width.Value))
	}
	b.WriteString("x")
	if v.Height.Value > 0 {
		b.WriteString(strconv.Itoa(v.Height.Value))
	}
	b.WriteString(string(v.Mode()))
	return b.String()
}

// Args returns the configured extra arguments or the defaults
func (v ImageVersionSpec) Args() []string {
	if v.ImageArgs == nil {
		return DefaultImageArgs
	}
	return v.ImageArgs
}

// ParseImageVersion parses "name:WxH" where W and H may carry a modifier, e.g. "thumbnail:80x80^"
func ParseImageVersion(s string) (ImageVersionSpec, error) {
	name, geometry, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || name == "" {
		return ImageVersionSpec{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	w, h, ok := strings.Cut(geometry, "x")
	if !ok {
		return ImageVersionSpec{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	width, err := ParseDimension(w)
	if err != nil {
		return ImageVersionSpec{}, err
	}
	height, err := ParseDimension(h)
	if err != nil {
		return ImageVersionSpec{}, err
	}
	return ImageVersionSpec{Name: name, Width: width, Height: height}, nil
}

// reservedVersionNames would collide with FileRecord keys once suffixed with "Url"
var reservedVersionNames = map[string]bool{"": true, "delete": true}

// ValidateImageVersions rejects duplicate names and names that cannot serve as a directory or a "<name>Url" key
func ValidateImageVersions(versions []ImageVersionSpec) error {
	seen := make(map[string]bool, len(versions))
	for _, v := range versions {
		switch {
		case reservedVersionNames[v.Name]:
			return fmt.Errorf("%w: %q is reserved", ErrInvalidVersionName, v.Name)
		case v.Name == "." || v.Name == ".." || strings.ContainsAny(v.Name, `/\`):
			return fmt.Errorf("%w: %q is not a directory name", ErrInvalidVersionName, v.Name)
		case seen[v.Name]:
			return fmt.Errorf("%w: %q is duplicated", ErrInvalidVersionName, v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// TransformRequest is one invocation of the external image-transform tool
type TransformRequest struct {
	Width      Dimension
	Height     Dimension
	SourcePath string
	DestPath   string
	ExtraArgs  []string
}

// Geometry renders the requested bounds as a resize geometry
func (r TransformRequest) Geometry() string {
	return ImageVersionSpec{Width: r.Width, Height: r.Height}.Geometry()
}
