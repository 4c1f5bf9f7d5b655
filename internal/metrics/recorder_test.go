package metrics

import (
	"testing"
	"time"
)

// Recorder implementations must be usable through the interface.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(RunCanceled)
	r.ObserveCourseDuration("c", time.Millisecond)
	r.IncCourseResult("c", CourseSkipped)
	r.IncFileOutcome("c", "error")
	r.IncInjection("canonical")
}
