package imagemagick

import (
	"bytes"
	"context"
	"fileupload/internal/config"
	"fileupload/internal/core/domain"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Transformer runs the ImageMagick command line tool
type Transformer struct {
	binary string
	logger *slog.Logger
}

// NewTransformer creates a Transformer from config
func NewTransformer(cfg config.TransformConfig, logger *slog.Logger) *Transformer {
	binary := cfg.Binary
	if binary == "" {
		binary = "convert"
	}
	return &Transformer{binary: binary, logger: logger}
}

// Transform resizes req.SourcePath into req.DestPath
func (t *Transformer) Transform(ctx context.Context, req domain.TransformRequest) error {
	args := BuildArgs(req)
	cmd := exec.CommandContext(ctx, t.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("failed to transform %s: %w", req.SourcePath, ctxErr)
		}
		return fmt.Errorf("failed to transform %s: %w: %s", req.SourcePath, err, strings.TrimSpace(stderr.String()))
	}
	t.logger.Debug("image transformed", "src", req.SourcePath, "dst", req.DestPath, "geometry", req.Geometry())
	return nil
}

// BuildArgs returns the command line arguments for req
func BuildArgs(req domain.TransformRequest) []string {
	args := make([]string, 0, len(req.ExtraArgs)+4)
	args = append(args, req.SourcePath, "-resize", req.Geometry())
	args = append(args, req.ExtraArgs...)
	return append(args, req.DestPath)
}
