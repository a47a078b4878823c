package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/weft/pkg/reactive"
)

type recordedSpan struct {
	noop.Span
	name  string
	start time.Time
	attrs []attribute.KeyValue
	code  codes.Code
	err   error
	ended bool
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string)           { s.code = code }
func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.err = err }
func (s *recordedSpan) End(...trace.SpanEndOption)                    { s.ended = true }

type recordingTracer struct {
	noop.Tracer
	spans *[]*recordedSpan
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, start: cfg.Timestamp(), attrs: cfg.Attributes()}
	*t.spans = append(*t.spans, s)
	return ctx, s
}

type recordingProvider struct {
	noop.TracerProvider
	spans *[]*recordedSpan
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{spans: p.spans}
}

func newRecordingTracer(opts ...TracerOption) (*Tracer, *[]*recordedSpan) {
	spans := new([]*recordedSpan)
	opts = append([]TracerOption{WithTracerProvider(recordingProvider{spans: spans})}, opts...)
	return NewTracer(opts...), spans
}

func spanNames(spans []*recordedSpan) []string {
	var names []string
	for _, s := range spans {
		names = append(names, s.name)
	}
	return names
}

func TestTracerRecordsSpans(t *testing.T) {
	tr, spans := newRecordingTracer()
	start := time.Now().Add(-time.Second)
	errLoad := errors.New("unavailable")

	tr.EffectDone(reactive.Microtask, start, nil)
	tr.EffectDone(reactive.Microtask, start, errLoad)
	tr.FlushDone(reactive.Immediate, start, 1)
	tr.FlushDone(reactive.Microtask, start, 3)
	tr.AsyncSettled("Profile", start, errLoad)
	tr.SessionClosed(time.Minute)

	want := []string{"weft.effect", "weft.flush", "weft.async", "weft.session"}
	if diff := cmp.Diff(want, spanNames(*spans)); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}

	for _, s := range *spans {
		if !s.ended {
			t.Errorf("span %s not ended", s.name)
		}
	}
	flush := (*spans)[1]
	if !flush.start.Equal(start) {
		t.Errorf("flush span starts at %v, want %v", flush.start, start)
	}
	if diff := cmp.Diff([]attribute.KeyValue{
		attribute.String("weft.schedule", "microtask"),
		attribute.Int("weft.effects", 3),
	}, flush.attrs, cmp.AllowUnexported(attribute.Value{})); diff != "" {
		t.Errorf("flush attributes mismatch (-want +got):\n%s", diff)
	}
	if async := (*spans)[2]; async.code != codes.Error || !errors.Is(async.err, errLoad) {
		t.Errorf("async span status = %v err = %v", async.code, async.err)
	}
}

func TestTracerImmediateSpans(t *testing.T) {
	tr, spans := newRecordingTracer(WithImmediateSpans(true), WithTracerName("app"))
	tr.FlushDone(reactive.Immediate, time.Now(), 1)
	if len(*spans) != 1 || (*spans)[0].code != codes.Ok {
		t.Errorf("spans = %v, want one ok flush span", spanNames(*spans))
	}
}

func TestTee(t *testing.T) {
	m, _ := newTestMetrics(t)
	tr, spans := newRecordingTracer()
	obs := Tee(m, nil, tr)

	obs.SessionOpened()
	obs.AsyncSettled("Card", time.Now(), nil)
	obs.SessionClosed(time.Second)

	if got := metricHistogramCount(t, m.asyncDuration.WithLabelValues("ok")); got != 1 {
		t.Errorf("async samples = %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"weft.async", "weft.session"}, spanNames(*spans)); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}
