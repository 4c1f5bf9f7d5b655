package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/pillarsync/internal/config"
	"git.home.luguber.info/inful/pillarsync/internal/eventstore"
	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/git"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/metrics"
	"git.home.luguber.info/inful/pillarsync/internal/notify"
	"git.home.luguber.info/inful/pillarsync/internal/orchestrator"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
	"git.home.luguber.info/inful/pillarsync/internal/sitemap"
)

const historySize = 200

// runtime wires the orchestrator to the integrations enabled in config.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
	orch     *orchestrator.Orchestrator
	promReg  *prom.Registry
	store    *eventstore.SQLiteStore
	history  *eventstore.RunHistoryProjection
	notifier *notify.Notifier
}

type runtimeOptions struct {
	metrics bool
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, ro runtimeOptions) (*runtime, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid course table").Build()
	}
	rt := &runtime{cfg: cfg, logger: logger, registry: reg}
	rt.orch = orchestrator.New(reg, orchestrator.Options{
		SiteRoot:              cfg.Site.Root,
		Site:                  cfg.SchemaSite(),
		LegacyCanonicalPrefix: cfg.Site.LegacyCanonicalPrefix,
		PillarFile:            cfg.Site.PillarFile,
		PagesDir:              cfg.Site.PagesDir,
		ClusterLimit:          cfg.Cluster.Limit,
		FAQHeading:            cfg.FAQ.Heading,
		FAQ:                   cfg.FAQEntries(),
	}).WithLogger(logger)

	if ro.metrics && cfg.Monitoring.Metrics.Enabled {
		rt.promReg = prom.NewRegistry()
		rt.promReg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
		rt.orch.WithRecorder(metrics.NewPrometheusRecorder(rt.promReg))
	}

	if cfg.Events.Enabled {
		if err := rt.openHistory(ctx); err != nil {
			return nil, err
		}
		rt.orch.WithEventSink(eventstore.NewSink(rt.store, rt.history))
	}

	if cfg.Notify.Enabled {
		n, err := notify.Connect(ctx, notify.Options{URL: cfg.Notify.NATSURL, Stream: cfg.Notify.Stream, Subject: cfg.Notify.Subject})
		if err != nil {
			logger.Warn("Run notifications disabled", logfields.Error(err))
		} else {
			rt.notifier = n.WithLogger(logger)
			rt.orch.WithEventSink(rt.notifier)
		}
	}
	return rt, nil
}

func (rt *runtime) openHistory(ctx context.Context) error {
	store, err := eventstore.NewSQLiteStore(rt.cfg.Events.DBPath)
	if err != nil {
		return err
	}
	rt.store = store
	rt.history = eventstore.NewRunHistoryProjection(store, historySize)
	if err := rt.history.Rebuild(ctx); err != nil {
		_ = store.Close()
		return err
	}
	return nil
}

func (rt *runtime) Close() {
	if rt.notifier != nil {
		if err := rt.notifier.Close(); err != nil {
			rt.logger.Warn("Closing notifier failed", logfields.Error(err))
		}
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.logger.Warn("Closing event store failed", logfields.Error(err))
		}
	}
}

// commit records every file the run changed in one commit. It returns ""
// when there was nothing to commit.
func (rt *runtime) commit(ctx context.Context, report *orchestrator.RunReport) (string, error) {
	changed := report.Changed()
	if report.DryRun || len(changed) == 0 {
		return "", nil
	}
	c, err := git.Open(rt.cfg.Site.Root, git.Author{Name: rt.cfg.Git.AuthorName, Email: rt.cfg.Git.AuthorEmail})
	if err != nil {
		return "", err
	}
	return c.WithLogger(rt.logger).CommitFiles(ctx, rt.cfg.Site.Root, changed, rt.cfg.Git.Message)
}

func (rt *runtime) sitemap(ctx context.Context, robots bool) (*sitemap.Result, error) {
	s := rt.cfg.Sitemap
	out := s.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(rt.cfg.Site.Root, out)
	}
	return sitemap.Generate(ctx, rt.cfg.Site.Root, rt.cfg.Site.BaseURL, sitemap.Options{
		Output:      out,
		IgnoreDirs:  s.IgnoreDirs,
		IgnoreFiles: s.IgnoreFiles,
		Robots:      robots || s.Robots,
	})
}
