package derivative

import (
	"context"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/filex"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Generate dispatches one transform per version; every dispatch holds the gate until it completes
func (g *generator) Generate(ctx context.Context, job port.DerivativeJob, gate port.Gate) {
	if job.ImageTypes == nil || !job.ImageTypes.MatchString(job.FileName) {
		return
	}
	for _, version := range job.Versions {
		gate.Enter()
		go func(version domain.ImageVersionSpec) {
			defer gate.Leave()
			g.generate(ctx, job, version)
		}(version)
	}
}

func (g *generator) generate(ctx context.Context, job port.DerivativeJob, version domain.ImageVersionSpec) {
	attrs := []attribute.KeyValue{
		attribute.String("upload.profile", job.Profile),
		attribute.String("upload.file", job.FileName),
		attribute.String("upload.version", version.Name),
	}
	ctx, span := g.tracer.Start(ctx, "derivative.Generate", trace.WithAttributes(attrs...))
	defer span.End()

	dir := job.VersionDir(version.Name)
	if err := filex.EnsureDir(dir); err != nil {
		g.fail(ctx, span, job, version, err, attrs)
		return
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	dst := filepath.Join(dir, job.FileName)
	err := g.transformer.Transform(ctx, domain.TransformRequest{
		Width:      version.Width,
		Height:     version.Height,
		SourcePath: job.SourcePath,
		DestPath:   dst,
		ExtraArgs:  version.Args(),
	})
	if err != nil {
		// a partial output must not be reported as a derivative
		_ = filex.RemoveIfExists(dst)
		g.fail(ctx, span, job, version, err, attrs)
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (g *generator) fail(ctx context.Context, span trace.Span, job port.DerivativeJob, version domain.ImageVersionSpec, err error, attrs []attribute.KeyValue) {
	err = fmt.Errorf("%w: %s/%s: %w", domain.ErrDerivativeFailed, version.Name, job.FileName, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if g.failures != nil {
		g.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	g.logger.Warn("derivative skipped",
		"profile", job.Profile,
		"file", job.FileName,
		"version", version.Name,
		"error", err,
	)
}
