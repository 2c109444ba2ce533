package derivative

import (
	"fileupload/internal/core/port"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "fileupload/derivative"

type generator struct {
	transformer port.ImageTransformer
	logger      *slog.Logger
	tracer      trace.Tracer
	meter       metric.Meter
	failures    metric.Int64Counter
	timeout     time.Duration
}

// Opt configures the generator
type Opt func(*generator)

// WithTracer sets the tracer used for one span per transform
func WithTracer(tracer trace.Tracer) Opt {
	return func(g *generator) {
		g.tracer = tracer
	}
}

// WithMeter sets the meter holding the failed-derivative counter
func WithMeter(meter metric.Meter) Opt {
	return func(g *generator) {
		g.meter = meter
	}
}

// WithTimeout bounds every transform; zero leaves them unbounded
func WithTimeout(timeout time.Duration) Opt {
	return func(g *generator) {
		g.timeout = timeout
	}
}

// NewDerivativeGenerator creates a new derivative generator
func NewDerivativeGenerator(transformer port.ImageTransformer, logger *slog.Logger, opts ...Opt) port.DerivativeGenerator {
	g := &generator{
		transformer: transformer,
		logger:      logger,
		tracer:      otel.Tracer(instrumentationName),
		meter:       otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(g)
	}

	failures, err := g.meter.Int64Counter(
		"upload.derivative.failures",
		metric.WithDescription("Image versions that could not be generated"),
	)
	if err != nil {
		logger.Warn("failed to create derivative failure counter", "error", err)
	}
	g.failures = failures
	return g
}
