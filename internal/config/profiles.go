package config

import (
	"errors"
	"fileupload/internal/core/domain"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultProfileName is the profile used when no profiles file is configured
const DefaultProfileName = "default"

// ProfilesFile is the YAML layout of the profiles file
type ProfilesFile struct {
	Profiles []ProfileConfig `yaml:"profiles"`
}

// ProfileConfig overrides UploadConfig values for one profile; zero values inherit
type ProfileConfig struct {
	Name            string               `yaml:"name"`
	UploadDir       string               `yaml:"uploadDir"`
	UploadURL       string               `yaml:"uploadUrl"`
	TargetDir       string               `yaml:"targetDir"`
	TargetURL       string               `yaml:"targetUrl"`
	TmpDir          string               `yaml:"tmpDir"`
	MinFileSize     *int64               `yaml:"minFileSize"`
	MaxFileSize     *int64               `yaml:"maxFileSize"`
	MaxPostSize     *int64               `yaml:"maxPostSize"`
	AcceptFileTypes string               `yaml:"acceptFileTypes"`
	ImageTypes      string               `yaml:"imageTypes"`
	SafeFileTypes   string               `yaml:"safeFileTypes"`
	DeleteType      string               `yaml:"deleteType"`
	NamingPolicy    string               `yaml:"namingPolicy"`
	ImageVersions   []ImageVersionConfig `yaml:"imageVersions"`
}

// ImageVersionConfig is one version entry; width and height accept "80", "80!" or "80^"
type ImageVersionConfig struct {
	Name      string   `yaml:"name"`
	Width     string   `yaml:"width"`
	Height    string   `yaml:"height"`
	ImageArgs []string `yaml:"imageArgs"`
}

// LoadProfiles builds the upload profiles from the profiles file, or the default profile when none is configured
func LoadProfiles(cfg UploadConfig) ([]domain.UploadProfile, error) {
	if cfg.ProfilesFile == "" {
		profile, err := buildProfile(cfg, ProfileConfig{Name: DefaultProfileName})
		if err != nil {
			return nil, err
		}
		return []domain.UploadProfile{profile}, nil
	}

	data, err := os.ReadFile(cfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return ParseProfiles(cfg, data)
}

// ParseProfiles decodes a YAML profiles document on top of cfg
func ParseProfiles(cfg UploadConfig, data []byte) ([]domain.UploadProfile, error) {
	var file ProfilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}
	if len(file.Profiles) == 0 {
		return nil, errors.New("profiles file defines no profile")
	}

	seen := map[string]bool{}
	profiles := make([]domain.UploadProfile, 0, len(file.Profiles))
	for _, pc := range file.Profiles {
		if pc.Name == "" {
			return nil, errors.New("profile name is required")
		}
		if seen[pc.Name] {
			return nil, fmt.Errorf("duplicate profile %q", pc.Name)
		}
		seen[pc.Name] = true

		profile, err := buildProfile(cfg, pc)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", pc.Name, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func buildProfile(cfg UploadConfig, pc ProfileConfig) (domain.UploadProfile, error) {
	p := domain.UploadProfile{
		Name:         pc.Name,
		UploadDir:    or(pc.UploadDir, cfg.UploadDir),
		UploadURL:    or(pc.UploadURL, cfg.UploadURL),
		TmpDir:       or(pc.TmpDir, cfg.TmpDir, os.TempDir()),
		MinFileSize:  orInt(pc.MinFileSize, cfg.MinFileSize),
		MaxFileSize:  orInt(pc.MaxFileSize, cfg.MaxFileSize),
		MaxPostSize:  orInt(pc.MaxPostSize, cfg.MaxPostSize),
		DeleteType:   or(pc.DeleteType, cfg.DeleteType, "DELETE"),
		NamingPolicy: domain.NamingPolicy(or(pc.NamingPolicy, cfg.NamingPolicy, string(domain.NamingPolicyCounter))),
	}
	p.TargetDir = or(pc.TargetDir, cfg.TargetDir, p.UploadDir)
	p.TargetURL = or(pc.TargetURL, cfg.TargetURL, p.UploadURL)

	switch p.NamingPolicy {
	case domain.NamingPolicyCounter, domain.NamingPolicyUnique:
	default:
		return domain.UploadProfile{}, fmt.Errorf("unknown naming policy %q", p.NamingPolicy)
	}

	var err error
	if p.AcceptFileTypes, err = compile(or(pc.AcceptFileTypes, cfg.AcceptFileTypes)); err != nil {
		return domain.UploadProfile{}, err
	}
	if p.ImageTypes, err = compile(or(pc.ImageTypes, cfg.ImageTypes)); err != nil {
		return domain.UploadProfile{}, err
	}
	if p.SafeFileTypes, err = compile(or(pc.SafeFileTypes, cfg.SafeFileTypes)); err != nil {
		return domain.UploadProfile{}, err
	}

	if pc.ImageVersions == nil {
		p.ImageVersions = append(p.ImageVersions, cfg.ImageVersions...)
	}
	for _, vc := range pc.ImageVersions {
		if vc.Name == "" {
			return domain.UploadProfile{}, errors.New("image version name is required")
		}
		width, err := domain.ParseDimension(vc.Width)
		if err != nil {
			return domain.UploadProfile{}, err
		}
		height, err := domain.ParseDimension(vc.Height)
		if err != nil {
			return domain.UploadProfile{}, err
		}
		p.ImageVersions = append(p.ImageVersions, domain.ImageVersionSpec{
			Name:      vc.Name,
			Width:     width,
			Height:    height,
			ImageArgs: vc.ImageArgs,
		})
	}
	if err := domain.ValidateImageVersions(p.ImageVersions); err != nil {
		return domain.UploadProfile{}, err
	}
	return p, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

func or(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orInt(v *int64, fallback int64) int64 {
	if v != nil {
		return *v
	}
	return fallback
}
