// Package telemetry exports runtime events as Prometheus metrics and
// OpenTelemetry spans.
//
// Metrics and Tracer implement reactive.Observer, render.Observer and
// live.Observer, so one value can be installed on every layer:
//
//	m := telemetry.NewMetrics()
//	root := reactive.NewRoot(loop, reactive.WithObserver(m))
//	r := render.New(adapter, render.WithObserver(m))
//	h := live.NewHandler(app, live.WithObserver(m))
//
// Metrics collected (namespace "weft" by default):
//   - weft_effect_runs_total: effect runs by schedule and status
//   - weft_flushes_total: queue flushes by schedule
//   - weft_flush_duration_seconds: flush duration by schedule
//   - weft_owners: live owners
//   - weft_instances_created_total: instances created, by kind
//   - weft_instances_removed_total: instances removed
//   - weft_async_duration_seconds: async component load duration by status
//   - weft_live_sessions: open live sessions
//   - weft_live_session_duration_seconds: live session lifetime
//   - weft_live_mutations_sent_total: DOM mutations sent to clients
//
// Use Tee to install both on a layer.
package telemetry
