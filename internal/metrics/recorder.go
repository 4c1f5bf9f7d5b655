package metrics

import "time"

// RunOutcomeLabel enumerates final run states for counters.
type RunOutcomeLabel string

const (
	RunSuccess  RunOutcomeLabel = "success"
	RunPartial  RunOutcomeLabel = "partial" // at least one file failed
	RunCanceled RunOutcomeLabel = "canceled"
)

// CourseResultLabel enumerates per-course results.
type CourseResultLabel string

const (
	CourseSynced  CourseResultLabel = "synced"
	CourseSkipped CourseResultLabel = "skipped"
)

// Recorder defines observability hooks for runs, courses and files.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcomeLabel)
	ObserveCourseDuration(course string, d time.Duration)
	IncCourseResult(course string, result CourseResultLabel)
	IncFileOutcome(course, outcome string) // outcome: updated|unchanged|unlinked|error
	IncInjection(name string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)            {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)               {}
func (NoopRecorder) ObserveCourseDuration(string, time.Duration) {}
func (NoopRecorder) IncCourseResult(string, CourseResultLabel)   {}
func (NoopRecorder) IncFileOutcome(string, string)               {}
func (NoopRecorder) IncInjection(string)                         {}
