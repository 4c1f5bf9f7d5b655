package orchestrator

import (
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/eventstore"
)

// Outcome tags what happened to one file.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeUnlinked  Outcome = "unlinked" // lesson not listed on the pillar page
	OutcomeError     Outcome = "error"
)

// FileOutcome is the result for one file. Path is relative to the site root
// and uses forward slashes.
type FileOutcome struct {
	Path    string
	Outcome Outcome
	Applied []string
	Err     error
}

// CourseReport summarises one course.
type CourseReport struct {
	Course   string
	Updated  int
	Current  int
	Unlinked int
	Errored  int
	// Skipped is set when the course was not processed; Reason says why.
	Skipped  bool
	Reason   string
	Outcomes []FileOutcome
	Duration time.Duration
}

func (r *CourseReport) record(o FileOutcome) {
	switch o.Outcome {
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUnchanged:
		r.Current++
	case OutcomeUnlinked:
		r.Unlinked++
	case OutcomeError:
		r.Errored++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Counts returns the per-outcome tallies.
func (r *CourseReport) Counts() eventstore.FileCounts {
	return eventstore.FileCounts{Updated: r.Updated, Current: r.Current, Unlinked: r.Unlinked, Errored: r.Errored}
}

// RunReport summarises a run over one or more courses.
type RunReport struct {
	RunID     string
	Trigger   string
	DryRun    bool
	Canceled  bool
	StartedAt time.Time
	Duration  time.Duration
	Courses   []CourseReport
}

// Totals sums file outcomes across courses.
func (r *RunReport) Totals() eventstore.FileCounts {
	var total eventstore.FileCounts
	for i := range r.Courses {
		total.Add(r.Courses[i].Counts())
	}
	return total
}

// Status is the run status recorded in history.
func (r *RunReport) Status() string {
	switch {
	case r.Canceled:
		return eventstore.StatusCanceled
	case r.Totals().Errored > 0:
		return eventstore.StatusPartial
	default:
		return eventstore.StatusSuccess
	}
}

// Changed lists the site-relative paths of files the run updated (or, in a
// dry run, would have updated).
func (r *RunReport) Changed() []string {
	var out []string
	for _, c := range r.Courses {
		for _, o := range c.Outcomes {
			if o.Outcome == OutcomeUpdated {
				out = append(out, o.Path)
			}
		}
	}
	return out
}

// Failures returns every errored file outcome.
func (r *RunReport) Failures() []FileOutcome {
	var out []FileOutcome
	for _, c := range r.Courses {
		for _, o := range c.Outcomes {
			if o.Outcome == OutcomeError {
				out = append(out, o)
			}
		}
	}
	return out
}

func (r *RunReport) completedData() eventstore.RunCompletedData {
	data := eventstore.RunCompletedData{
		Status:     r.Status(),
		Files:      r.Totals(),
		DurationMS: r.Duration.Milliseconds(),
		DryRun:     r.DryRun,
	}
	for _, c := range r.Courses {
		if c.Skipped {
			data.CoursesSkipped++
		} else {
			data.CoursesSynced++
		}
	}
	return data
}
