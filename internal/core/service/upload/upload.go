package upload

import (
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/naming"
	"log/slog"
)

type uploadService struct {
	profiles  map[string]domain.UploadProfile
	namers    map[domain.NamingPolicy]port.Namer
	generator port.DerivativeGenerator
	logger    *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(profiles []domain.UploadProfile, generator port.DerivativeGenerator, logger *slog.Logger) port.UploadService {
	byName := make(map[string]domain.UploadProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}
	return &uploadService{
		profiles: byName,
		namers: map[domain.NamingPolicy]port.Namer{
			domain.NamingPolicyCounter: naming.NewCounterNamer(),
			domain.NamingPolicyUnique:  naming.NewUniqueNamer(),
		},
		generator: generator,
		logger:    logger,
	}
}

// Profile returns the profile called name
func (u *uploadService) Profile(name string) (domain.UploadProfile, error) {
	p, ok := u.profiles[name]
	if !ok {
		return domain.UploadProfile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (u *uploadService) namer(policy domain.NamingPolicy) port.Namer {
	if n, ok := u.namers[policy]; ok {
		return n
	}
	return u.namers[domain.NamingPolicyCounter]
}

type noopListener struct{}

func (noopListener) OnEvent(domain.LifecycleEvent) {}
