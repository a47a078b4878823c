package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/weft/pkg/reactive"
)

// Default tracer name for weft.
const defaultTracerName = "weft"

// TracerConfig configures the OpenTelemetry tracer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "weft").
	TracerName string

	// Provider is the tracer provider.
	// Default: the global provider.
	Provider trace.TracerProvider

	// Context is the parent context for every span.
	// Default: context.Background().
	Context context.Context

	// TraceImmediate also records spans for Immediate flushes, which happen
	// on every state write.
	TraceImmediate bool
}

// TracerOption configures the tracer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = tp
	}
}

// WithParent sets the context spans are started in.
func WithParent(ctx context.Context) TracerOption {
	return func(c *TracerConfig) {
		c.Context = ctx
	}
}

// WithImmediateSpans enables spans for Immediate flushes.
func WithImmediateSpans(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.TraceImmediate = enabled
	}
}

// Tracer records flushes, async component loads and live sessions as
// spans. The observer hooks report after the fact, so each span is started
// at the reported start time and ended immediately.
type Tracer struct {
	tracer    trace.Tracer
	ctx       context.Context
	immediate bool
}

// NewTracer creates a Tracer.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before starting:
//
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer, ctx: config.Context, immediate: config.TraceImmediate}
}

func (t *Tracer) record(name string, start time.Time, err error, attrs ...attribute.KeyValue) {
	_, span := t.tracer.Start(t.ctx, name,
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// EffectDone implements reactive.Observer. Only failed runs get a span.
func (t *Tracer) EffectDone(s reactive.Schedule, start time.Time, err error) {
	if err == nil {
		return
	}
	t.record("weft.effect", start, err, attribute.String("weft.schedule", s.String()))
}

// FlushDone implements reactive.Observer.
func (t *Tracer) FlushDone(s reactive.Schedule, start time.Time, effects int) {
	if s == reactive.Immediate && !t.immediate {
		return
	}
	t.record("weft.flush", start, nil,
		attribute.String("weft.schedule", s.String()),
		attribute.Int("weft.effects", effects),
	)
}

func (t *Tracer) OwnerCreated()  {}
func (t *Tracer) OwnerDisposed() {}

func (t *Tracer) InstanceCreated(string) {}
func (t *Tracer) InstanceRemoved()       {}

// AsyncSettled implements render.Observer.
func (t *Tracer) AsyncSettled(component string, start time.Time, err error) {
	t.record("weft.async", start, err, attribute.String("weft.component", component))
}

func (t *Tracer) SessionOpened() {}

// SessionClosed implements live.Observer.
func (t *Tracer) SessionClosed(lifetime time.Duration) {
	t.record("weft.session", time.Now().Add(-lifetime), nil)
}

func (t *Tracer) PatchSent(int) {}
