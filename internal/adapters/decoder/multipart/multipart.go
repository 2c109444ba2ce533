package multipart

import (
	"context"
	"errors"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/filex"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxFieldSize bounds the value of a plain form field
const maxFieldSize = 1 << 20

// ErrFieldTooLarge is reported when a plain form field exceeds maxFieldSize
var ErrFieldTooLarge = errors.New("form field too large")

// Decoder streams multipart/form-data bodies into port.FormEvents
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a new multipart decoder
func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{logger: logger}
}

var _ port.FormDecoder = (*Decoder)(nil)

// Decode reads r's body part by part; file parts are written to tmpDir before File is reported
func (d *Decoder) Decode(ctx context.Context, r *http.Request, tmpDir string, events port.FormEvents) {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if err := filex.EnsureDir(tmpDir); err != nil {
		events.Error(fmt.Errorf("failed to prepare temp dir: %w", err))
		return
	}

	r.Body = &countingReader{ctx: ctx, r: r.Body, progress: events.Progress}
	reader, err := r.MultipartReader()
	if err != nil {
		events.Error(err)
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			if ctx.Err() != nil {
				d.fail(ctx, context.Cause(ctx), events)
				return
			}
			events.End()
			return
		}
		if err != nil {
			d.fail(ctx, err, events)
			return
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
			_ = part.Close()
			if err != nil {
				d.fail(ctx, err, events)
				return
			}
			if len(value) > maxFieldSize {
				events.Error(fmt.Errorf("%w: %s", ErrFieldTooLarge, part.FormName()))
				return
			}
			events.Field(part.FormName(), string(value))
			continue
		}

		tempPath := filepath.Join(tmpDir, domain.TempFilePrefix+uuid.NewString())
		handle := events.FileBegin(port.FilePart{
			FieldName:   part.FormName(),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			TempPath:    tempPath,
		})

		size, err := spool(part, tempPath)
		_ = part.Close()
		if err != nil {
			_ = filex.RemoveIfExists(tempPath)
			d.fail(ctx, err, events)
			return
		}
		events.File(handle, size)
	}
}

func spool(src io.Reader, path string) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

// fail tells a broken transport apart from a malformed body
func (d *Decoder) fail(ctx context.Context, err error, events port.FormEvents) {
	if isTransportError(ctx, err) {
		d.logger.Debug("upload transport aborted", "error", err)
		events.Aborted()
		return
	}
	events.Error(err)
}

func isTransportError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, http.ErrBodyReadAfterClose) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// multipart reports a body cut short without wrapping io.ErrUnexpectedEOF
	return strings.Contains(err.Error(), "unexpected EOF")
}

type countingReader struct {
	ctx      context.Context
	r        io.ReadCloser
	received int64
	progress func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, context.Cause(c.ctx)
	}
	n, err := c.r.Read(p)
	if n > 0 {
		c.received += int64(n)
		c.progress(c.received)
		// progress may have terminated the request on the final read
		if c.ctx.Err() != nil {
			return n, context.Cause(c.ctx)
		}
	}
	return n, err
}

func (c *countingReader) Close() error {
	return c.r.Close()
}
