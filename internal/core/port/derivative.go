package port

import (
	"context"
	"fileupload/internal/core/domain"
	"regexp"
)

// Gate is the registration side of a completion barrier
type Gate interface {
	Enter()
	Leave()
}

// ImageTransformer is the external image-transform tool
type ImageTransformer interface {
	Transform(ctx context.Context, req domain.TransformRequest) error
}

// DerivativeJob is one persisted primary file whose versions must be generated
type DerivativeJob struct {
	Profile    string
	FileName   string
	SourcePath string
	Versions   []domain.ImageVersionSpec
	// ImageTypes selects the file names that get derivatives; nil matches nothing
	ImageTypes *regexp.Regexp
	// VersionDir resolves the directory holding a version's derivatives
	VersionDir func(version string) string
}

// DerivativeGenerator fans out one transform per version
type DerivativeGenerator interface {
	// Generate registers every dispatched transform with gate and returns without waiting
	Generate(ctx context.Context, job DerivativeJob, gate Gate)
}
