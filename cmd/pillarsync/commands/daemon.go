package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/pillarsync/internal/daemon"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/metrics"
	"git.home.luguber.info/inful/pillarsync/internal/orchestrator"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	HTTPAddr string `name:"http-addr" help:"Override daemon.http_addr"`
	NoWatch  bool   `help:"Disable the file watcher even if daemon.watch is set"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, g.Logger, runtimeOptions{metrics: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := daemon.Options{
		Schedule:    cfg.Daemon.Schedule,
		Watch:       cfg.Daemon.Watch && !d.NoWatch,
		Debounce:    cfg.Daemon.DebounceDuration(),
		SiteRoot:    cfg.Site.Root,
		PagesDir:    cfg.Site.PagesDir,
		Registry:    rt.registry,
		HTTPAddr:    cfg.Daemon.HTTPAddr,
		HealthPath:  cfg.Monitoring.Health.Path,
		MetricsPath: cfg.Monitoring.Metrics.Path,
	}
	if d.HTTPAddr != "" {
		opts.HTTPAddr = d.HTTPAddr
	}
	if rt.promReg != nil {
		opts.Metrics = metrics.HTTPHandler(rt.promReg)
	}

	dm := daemon.New(rt.orch, opts).
		WithLogger(g.Logger).
		WithAfterRun(rt.afterDaemonRun)

	g.Logger.Info("Starting daemon", "schedule", opts.Schedule, "watch", opts.Watch, "http_addr", opts.HTTPAddr)
	return dm.Run(ctx)
}

// afterDaemonRun commits and refreshes the sitemap when a run changed files.
func (rt *runtime) afterDaemonRun(ctx context.Context, report *orchestrator.RunReport) {
	if len(report.Changed()) == 0 {
		return
	}
	if rt.cfg.Git.Commit {
		if _, err := rt.commit(ctx, report); err != nil {
			rt.logger.Error("Commit after sync failed", logfields.RunID(report.RunID), logfields.Error(err))
		}
	}
	if _, err := rt.sitemap(ctx, false); err != nil {
		rt.logger.Error("Sitemap refresh failed", logfields.RunID(report.RunID), logfields.Error(err))
	}
}
