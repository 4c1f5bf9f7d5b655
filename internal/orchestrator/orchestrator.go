// Package orchestrator drives a sync run: for each course it parses the
// pillar page, updates the pillar, then updates every lesson it links to.
//
// Failures are contained at the file boundary. A file that cannot be read or
// written is recorded as an error outcome and the run moves on.
package orchestrator

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pillarsync/internal/cluster"
	"git.home.luguber.info/inful/pillarsync/internal/eventstore"
	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/metadata"
	"git.home.luguber.info/inful/pillarsync/internal/metrics"
	"git.home.luguber.info/inful/pillarsync/internal/mutate"
	"git.home.luguber.info/inful/pillarsync/internal/pillar"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
	"git.home.luguber.info/inful/pillarsync/internal/schema"
)

// Course skip reasons.
const (
	ReasonPillarMissing = "pillar page not found"
	ReasonPillarEmpty   = "pillar page links no lessons"
	ReasonPillarError   = "pillar page unreadable"
)

// ErrUnknownCourse is returned when a run names a course the registry lacks.
var ErrUnknownCourse = errors.NewError(errors.CategoryNotFound, "unknown course").Build()

// EventSink receives run events. Sink failures are logged and never fail a run.
type EventSink interface {
	Emit(ctx context.Context, ev eventstore.Event) error
}

// Options configures where the site lives and what gets injected.
type Options struct {
	SiteRoot              string
	Site                  schema.Site
	LegacyCanonicalPrefix string
	PillarFile            string // default "index.html"
	PagesDir              string // default "pages"
	ClusterLimit          int    // default cluster.DefaultLimit
	FAQHeading            string
	FAQ                   []schema.FAQEntry
}

func (o Options) withDefaults() Options {
	if o.PillarFile == "" {
		o.PillarFile = "index.html"
	}
	if o.PagesDir == "" {
		o.PagesDir = "pages"
	}
	if o.ClusterLimit <= 0 {
		o.ClusterLimit = cluster.DefaultLimit
	}
	if o.FAQHeading == "" {
		o.FAQHeading = schema.DefaultFAQHeading
	}
	if o.FAQ == nil {
		o.FAQ = schema.DefaultFAQ()
	}
	return o
}

// Request selects what a single run does.
type Request struct {
	// Courses limits the run to these keys; empty means every course.
	Courses []string
	DryRun  bool
	Trigger string
}

// Orchestrator runs syncs over the courses of a registry.
type Orchestrator struct {
	registry *registry.Registry
	opts     Options
	files    FileStore
	recorder metrics.Recorder
	sinks    []EventSink
	logger   *slog.Logger
	faq      *schema.FAQRenderer
	newRunID func() string
}

// New creates an orchestrator over the local file system with no metrics
// and no event sinks.
func New(reg *registry.Registry, opts Options) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		opts:     opts.withDefaults(),
		files:    OSFileStore{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		faq:      schema.NewFAQRenderer(),
		newRunID: uuid.NewString,
	}
}

// WithFileStore replaces the file system access layer.
func (o *Orchestrator) WithFileStore(store FileStore) *Orchestrator {
	o.files = store
	return o
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	o.recorder = r
	return o
}

// WithEventSink adds a sink for run events.
func (o *Orchestrator) WithEventSink(s EventSink) *Orchestrator {
	o.sinks = append(o.sinks, s)
	return o
}

// WithLogger sets the logger.
func (o *Orchestrator) WithLogger(l *slog.Logger) *Orchestrator {
	o.logger = l
	return o
}

// Registry returns the course registry the orchestrator runs over.
func (o *Orchestrator) Registry() *registry.Registry { return o.registry }

// Run syncs the requested courses. It returns an error only for an unknown
// course key or a cancelled context; per-file failures are in the report.
// A cancelled run stops after the file in progress and still returns its
// partial report.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*RunReport, error) {
	courses, err := o.selectCourses(req.Courses)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     o.newRunID(),
		Trigger:   req.Trigger,
		DryRun:    req.DryRun,
		StartedAt: time.Now(),
	}
	log := o.logger.With(logfields.RunID(report.RunID))

	keys := make([]string, len(courses))
	for i, c := range courses {
		keys[i] = c.Key
	}
	o.emit(ctx, log, func() (*eventstore.BaseEvent, error) {
		return eventstore.NewRunStarted(report.RunID, eventstore.RunStartedData{Courses: keys, DryRun: req.DryRun, Trigger: req.Trigger})
	})
	log.Info("Sync run started", slog.Int("courses", len(courses)), slog.Bool("dry_run", req.DryRun), slog.String("trigger", req.Trigger))

	faqSection, faqErr := o.faq.Render(o.opts.FAQHeading, o.opts.FAQ)
	if faqErr != nil {
		log.Error("FAQ section could not be rendered; pillar pages keep their current FAQ state", logfields.Error(faqErr))
		faqSection = ""
	}

	run := &courseRun{o: o, log: log, runID: report.RunID, dryRun: req.DryRun, faqSection: faqSection}
	for _, c := range courses {
		if ctx.Err() != nil {
			report.Canceled = true
			break
		}
		cr := run.course(ctx, c)
		report.Courses = append(report.Courses, cr)
		if ctx.Err() != nil {
			report.Canceled = true
			break
		}
	}

	report.Duration = time.Since(report.StartedAt)
	o.finish(ctx, log, report)

	if report.Canceled {
		return report, ctx.Err()
	}
	return report, nil
}

func (o *Orchestrator) selectCourses(keys []string) ([]registry.CourseDescriptor, error) {
	if len(keys) == 0 {
		return o.registry.Courses(), nil
	}
	out := make([]registry.CourseDescriptor, 0, len(keys))
	for _, k := range keys {
		c, ok := o.registry.Lookup(k)
		if !ok {
			return nil, ErrUnknownCourse.WithContext("course", k)
		}
		out = append(out, c)
	}
	return out, nil
}

func (o *Orchestrator) finish(ctx context.Context, log *slog.Logger, report *RunReport) {
	totals := report.Totals()
	outcome := metrics.RunSuccess
	switch report.Status() {
	case eventstore.StatusCanceled:
		outcome = metrics.RunCanceled
	case eventstore.StatusPartial:
		outcome = metrics.RunPartial
	}
	o.recorder.ObserveRunDuration(report.Duration)
	o.recorder.IncRunOutcome(outcome)

	// Sinks still get the completion event after cancellation.
	o.emit(context.WithoutCancel(ctx), log, func() (*eventstore.BaseEvent, error) {
		return eventstore.NewRunCompleted(report.RunID, report.completedData())
	})

	log.Info("Sync run completed",
		slog.String("status", report.Status()),
		slog.Int("updated", totals.Updated),
		slog.Int("current", totals.Current),
		slog.Int("unlinked", totals.Unlinked),
		slog.Int("errored", totals.Errored),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
}

func (o *Orchestrator) emit(ctx context.Context, log *slog.Logger, build func() (*eventstore.BaseEvent, error)) {
	if len(o.sinks) == 0 {
		return
	}
	ev, err := build()
	if err != nil {
		log.Warn("Failed to build run event", logfields.Error(err))
		return
	}
	for _, s := range o.sinks {
		if err := s.Emit(ctx, ev); err != nil {
			log.Warn("Failed to emit run event", slog.String("event_type", ev.Type()), logfields.Error(err))
		}
	}
}

// LoadGraph reads and parses a course's pillar page.
func (o *Orchestrator) LoadGraph(course registry.CourseDescriptor) (*pillar.Graph, error) {
	p := o.osPath(course.SitePath, o.opts.PillarFile)
	data, err := o.files.ReadFile(p)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, ReasonPillarMissing).WithContext("path", p).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, ReasonPillarError).WithContext("path", p).Build()
	}
	return pillar.Parse(string(data), course.Key), nil
}

// LessonURL is the canonical URL of a lesson file.
func (o *Orchestrator) LessonURL(course registry.CourseDescriptor, filename string) string {
	return schema.PageURL(o.opts.Site.BaseURL, course.SitePath, path.Join(o.opts.PagesDir, filename))
}

func (o *Orchestrator) osPath(sitePath string, elem ...string) string {
	parts := append([]string{o.opts.SiteRoot, filepath.FromSlash(sitePath)}, elem...)
	return filepath.Join(parts...)
}

func (o *Orchestrator) lessonInjections(course registry.CourseDescriptor, g *pillar.Graph, rec pillar.PageRecord, meta metadata.Metadata) []mutate.Injection {
	return mutate.LessonInjections(mutate.Lesson{
		Site:                  o.opts.Site,
		Course:                course,
		CourseTitle:           g.CourseTitle,
		Meta:                  meta,
		PageURL:               o.LessonURL(course, rec.Filename),
		LegacyCanonicalPrefix: o.opts.LegacyCanonicalPrefix,
		Domain:                rec.DomainName,
		Related:               cluster.RelatedN(rec, g, o.opts.ClusterLimit),
	})
}
