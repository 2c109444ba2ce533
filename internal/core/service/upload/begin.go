package upload

import (
	"context"
	"fileupload/internal/core/barrier"
	"fileupload/internal/core/port"
)

// Begin opens a session for one upload request against opts.Profile
func (u *uploadService) Begin(ctx context.Context, opts port.SessionOptions) (port.UploadSession, error) {
	profile, err := u.Profile(opts.Profile)
	if err != nil {
		return nil, err
	}

	listener := opts.Listener
	if listener == nil {
		listener = noopListener{}
	}

	s := &session{
		profile:   profile,
		namer:     u.namer(profile.NamingPolicy),
		generator: u.generator,
		listener:  listener,
		logger:    u.logger.With("profile", profile.Name),
		opts:      opts,
		// derivative work outlives the request
		ctx:  context.WithoutCancel(ctx),
		done: make(chan struct{}),
	}
	s.barrier = barrier.New(s.finalize)
	return s, nil
}
