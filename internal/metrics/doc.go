// Package metrics provides the observability hooks for sync runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	type Orchestrator struct {
//	    recorder metrics.Recorder
//	}
//
// When monitoring.metrics.enabled is set the daemon swaps in a
// PrometheusRecorder registered on its own registry and serves it through
// HTTPHandler.
package metrics
