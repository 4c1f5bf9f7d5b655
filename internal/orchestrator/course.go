package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime/debug"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/eventstore"
	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/metadata"
	"git.home.luguber.info/inful/pillarsync/internal/metrics"
	"git.home.luguber.info/inful/pillarsync/internal/mutate"
	"git.home.luguber.info/inful/pillarsync/internal/pillar"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
)

// courseRun holds the per-run state shared by every course.
type courseRun struct {
	o          *Orchestrator
	log        *slog.Logger
	runID      string
	dryRun     bool
	faqSection string
}

// course processes one course: load and parse the pillar, update it, then
// walk the lessons directory.
func (r *courseRun) course(ctx context.Context, c registry.CourseDescriptor) CourseReport {
	start := time.Now()
	log := r.log.With(logfields.Course(c.Key))
	report := CourseReport{Course: c.Key}

	pillarRel := path.Join(c.SitePath, r.o.opts.PillarFile)
	data, err := r.o.files.ReadFile(r.o.osPath(c.SitePath, r.o.opts.PillarFile))
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return r.skip(ctx, log, report, ReasonPillarMissing)
	case err != nil:
		report.record(r.fail(ctx, log, c.Key, pillarRel, errors.WrapError(err, errors.CategoryFileSystem, "read pillar page").Build()))
		return r.skip(ctx, log, report, ReasonPillarError)
	}

	graph := pillar.Parse(string(data), c.Key)
	if graph.Empty() {
		return r.skip(ctx, log, report, ReasonPillarEmpty)
	}
	log.Debug("Parsed pillar page", slog.Int("domains", len(graph.Domains())), slog.Int("lessons", graph.Len()))

	report.record(r.safe(ctx, log, c.Key, pillarRel, func() FileOutcome {
		return r.apply(ctx, log, c.Key, pillarRel, r.o.osPath(c.SitePath, r.o.opts.PillarFile), string(data),
			mutate.PillarInjections(r.o.opts.FAQHeading, r.faqSection))
	}))

	r.lessons(ctx, log, c, graph, &report)

	report.Duration = time.Since(start)
	r.o.recorder.ObserveCourseDuration(c.Key, report.Duration)
	r.o.recorder.IncCourseResult(c.Key, metrics.CourseSynced)
	r.o.emit(ctx, log, func() (*eventstore.BaseEvent, error) {
		return eventstore.NewCourseSynced(r.runID, eventstore.CourseSyncedData{
			Course: c.Key, Files: report.Counts(), DurationMS: report.Duration.Milliseconds(),
		})
	})
	log.Info("Course synced",
		slog.Int("updated", report.Updated),
		slog.Int("current", report.Current),
		slog.Int("unlinked", report.Unlinked),
		slog.Int("errored", report.Errored),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report
}

func (r *courseRun) lessons(ctx context.Context, log *slog.Logger, c registry.CourseDescriptor, g *pillar.Graph, report *CourseReport) {
	dir := r.o.osPath(c.SitePath, r.o.opts.PagesDir)
	names, err := r.o.files.ListHTML(dir)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			report.record(r.fail(ctx, log, c.Key, path.Join(c.SitePath, r.o.opts.PagesDir),
				errors.WrapError(err, errors.CategoryFileSystem, "list lessons").Build()))
		}
		return
	}

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		rel := path.Join(c.SitePath, r.o.opts.PagesDir, name)
		rec, linked := g.Lookup(name)
		if !linked {
			log.Debug("Lesson not linked from pillar page", logfields.File(rel), logfields.Outcome(string(OutcomeUnlinked)))
			r.o.recorder.IncFileOutcome(c.Key, string(OutcomeUnlinked))
			report.record(FileOutcome{Path: rel, Outcome: OutcomeUnlinked})
			continue
		}
		osPath := r.o.osPath(c.SitePath, r.o.opts.PagesDir, name)
		report.record(r.safe(ctx, log, c.Key, rel, func() FileOutcome {
			return r.lesson(ctx, log, c, g, rec, rel, osPath)
		}))
	}
}

func (r *courseRun) lesson(ctx context.Context, log *slog.Logger, c registry.CourseDescriptor, g *pillar.Graph, rec pillar.PageRecord, rel, osPath string) FileOutcome {
	data, err := r.o.files.ReadFile(osPath)
	if err != nil {
		return r.fail(ctx, log, c.Key, rel, errors.WrapError(err, errors.CategoryFileSystem, "read lesson").Build())
	}
	markup := string(data)
	return r.apply(ctx, log, c.Key, rel, osPath, markup, r.o.lessonInjections(c, g, rec, metadata.Extract(markup)))
}

// apply mutates one file and writes it back when it changed.
func (r *courseRun) apply(ctx context.Context, log *slog.Logger, course, rel, osPath, markup string, injections []mutate.Injection) FileOutcome {
	res := mutate.Apply(markup, injections)
	for _, s := range res.Skipped {
		if s.Reason == mutate.SkipNoAnchor {
			log.Debug("Injection anchor not found", logfields.File(rel), logfields.Injection(s.Name))
		}
	}
	if !res.Changed {
		log.Debug("File already current", logfields.File(rel), logfields.Outcome(string(OutcomeUnchanged)))
		r.o.recorder.IncFileOutcome(course, string(OutcomeUnchanged))
		return FileOutcome{Path: rel, Outcome: OutcomeUnchanged}
	}

	if !r.dryRun {
		if err := r.o.files.WriteFile(osPath, []byte(res.Markup)); err != nil {
			return r.fail(ctx, log, course, rel, errors.WrapError(err, errors.CategoryFileSystem, "write file").Build())
		}
	}
	for _, name := range res.Applied {
		r.o.recorder.IncInjection(name)
	}
	r.o.recorder.IncFileOutcome(course, string(OutcomeUpdated))
	log.Info("Updated file", logfields.File(rel), slog.Any("applied", res.Applied), slog.Bool("dry_run", r.dryRun))
	return FileOutcome{Path: rel, Outcome: OutcomeUpdated, Applied: res.Applied}
}

// safe runs the work for one file. A panic is recovered and recorded as that
// file's error outcome.
func (r *courseRun) safe(ctx context.Context, log *slog.Logger, course, rel string, fn func() FileOutcome) (out FileOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			err := errors.NewError(errors.CategoryInternal, fmt.Sprintf("panic while processing file: %v", rec)).
				WithContext("stack", string(debug.Stack())).
				Build()
			out = r.fail(ctx, log, course, rel, err)
		}
	}()
	return fn()
}

func (r *courseRun) fail(ctx context.Context, log *slog.Logger, course, rel string, err error) FileOutcome {
	log.Error("File failed", logfields.File(rel), logfields.Outcome(string(OutcomeError)), logfields.Error(err))
	r.o.recorder.IncFileOutcome(course, string(OutcomeError))
	r.o.emit(ctx, log, func() (*eventstore.BaseEvent, error) {
		return eventstore.NewFileFailed(r.runID, eventstore.FileFailedData{Course: course, File: rel, Error: err.Error()})
	})
	return FileOutcome{Path: rel, Outcome: OutcomeError, Err: err}
}

func (r *courseRun) skip(ctx context.Context, log *slog.Logger, report CourseReport, reason string) CourseReport {
	report.Skipped = true
	report.Reason = reason
	log.Warn("Skipping course", slog.String("reason", reason))
	r.o.recorder.IncCourseResult(report.Course, metrics.CourseSkipped)
	r.o.emit(ctx, log, func() (*eventstore.BaseEvent, error) {
		return eventstore.NewCourseSkipped(r.runID, eventstore.CourseSkippedData{Course: report.Course, Reason: reason})
	})
	return report
}
