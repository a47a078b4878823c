package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/weft/pkg/reactive"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(WithRegistry(reg)), reg
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsRecordsRuntimeEvents(t *testing.T) {
	m, _ := newTestMetrics(t)
	start := time.Now()

	m.EffectDone(reactive.Microtask, start, nil)
	m.EffectDone(reactive.Microtask, start, errors.New("boom"))
	m.FlushDone(reactive.Immediate, start, 2)
	m.OwnerCreated()
	m.OwnerCreated()
	m.OwnerDisposed()
	m.InstanceCreated("div")
	m.InstanceCreated("")
	m.InstanceRemoved()
	m.AsyncSettled("Profile", start, nil)
	m.SessionOpened()
	m.PatchSent(3)
	m.PatchSent(2)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"ok effects", testutil.ToFloat64(m.effectRuns.WithLabelValues("microtask", "ok")), 1},
		{"failed effects", testutil.ToFloat64(m.effectRuns.WithLabelValues("microtask", "error")), 1},
		{"flushes", testutil.ToFloat64(m.flushes.WithLabelValues("immediate")), 1},
		{"owners", testutil.ToFloat64(m.owners), 1},
		{"elements", testutil.ToFloat64(m.created.WithLabelValues("element")), 1},
		{"defaults", testutil.ToFloat64(m.created.WithLabelValues("default")), 1},
		{"removed", testutil.ToFloat64(m.removed), 1},
		{"sessions", testutil.ToFloat64(m.sessions), 1},
		{"mutations", testutil.ToFloat64(m.mutationsSent), 5},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if got := metricHistogramCount(t, m.flushDuration.WithLabelValues("immediate")); got != 1 {
		t.Errorf("flush duration samples = %d, want 1", got)
	}
	if got := metricHistogramCount(t, m.asyncDuration.WithLabelValues("ok")); got != 1 {
		t.Errorf("async duration samples = %d, want 1", got)
	}

	m.SessionClosed(time.Minute)
	if got := testutil.ToFloat64(m.sessions); got != 0 {
		t.Errorf("sessions after close = %v, want 0", got)
	}
	if got := metricHistogramCount(t, m.sessionDuration); got != 1 {
		t.Errorf("session duration samples = %d, want 1", got)
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	m.OwnerCreated()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() != "app_ui_owners" {
			continue
		}
		found = true
		labels := f.GetMetric()[0].GetLabel()
		if len(labels) != 1 || labels[0].GetName() != "env" || labels[0].GetValue() != "test" {
			t.Errorf("unexpected labels %v", labels)
		}
	}
	if !found {
		t.Error("app_ui_owners not registered")
	}
}

func TestMetricsObserveReactiveRoot(t *testing.T) {
	m, _ := newTestMetrics(t)
	loop := reactive.NewLoop()
	root := reactive.NewRoot(loop, reactive.WithObserver(m))

	count, setCount := reactive.State(root, 0)
	child := root.Child()
	child.EffectOn(reactive.Microtask, func() reactive.Cleanup {
		_ = count.Get()
		return nil
	}, count)
	if err := loop.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	setCount.Set(1)
	if err := loop.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if got := testutil.ToFloat64(m.effectRuns.WithLabelValues("microtask", "ok")); got != 2 {
		t.Errorf("microtask runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.owners); got != 2 {
		t.Errorf("owners = %v, want 2", got)
	}
	root.Dispose()
	if got := testutil.ToFloat64(m.owners); got != 0 {
		t.Errorf("owners after dispose = %v, want 0", got)
	}

}
