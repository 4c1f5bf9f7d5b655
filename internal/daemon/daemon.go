package daemon

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/orchestrator"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
)

// Trigger names recorded on runs started by the daemon.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
)

// Status is the daemon lifecycle state.
type Status string

const (
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusStopped  Status = "stopped"
)

const shutdownTimeout = 5 * time.Second

// Runner executes one sync run.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) (*orchestrator.RunReport, error)
}

// AfterRunFunc is called after every run that produced a report, while the
// run lock is still held.
type AfterRunFunc func(ctx context.Context, report *orchestrator.RunReport)

// Options configures the daemon.
type Options struct {
	Schedule    string        // Cron expression; empty disables scheduled syncs
	Watch       bool          // Re-sync courses whose files change
	Debounce    time.Duration // Quiet period before a watch-triggered sync
	SiteRoot    string
	PagesDir    string
	Registry    *registry.Registry
	HTTPAddr    string // Empty disables the HTTP server
	HealthPath  string
	MetricsPath string
	Metrics     http.Handler // Served at MetricsPath when non-nil
}

// Daemon owns the scheduler, the watcher and the HTTP server.
type Daemon struct {
	opts   Options
	runner Runner
	after  []AfterRunFunc
	logger *slog.Logger

	runMu sync.Mutex // serialises runs

	mu        sync.RWMutex
	status    Status
	startTime time.Time
	last      *orchestrator.RunReport
	lastErr   error
	runs      int
	addr      net.Addr
}

// New creates a daemon that syncs through runner.
func New(runner Runner, opts Options) *Daemon {
	if opts.HealthPath == "" {
		opts.HealthPath = "/health"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	return &Daemon{opts: opts, runner: runner, logger: slog.Default(), status: StatusStopped}
}

// WithAfterRun adds a hook run after each sync.
func (d *Daemon) WithAfterRun(fn AfterRunFunc) *Daemon {
	d.after = append(d.after, fn)
	return d
}

// WithLogger sets the logger.
func (d *Daemon) WithLogger(l *slog.Logger) *Daemon {
	d.logger = l
	return d
}

// Run blocks until ctx is cancelled. Startup errors (listen, scheduler,
// watcher) are returned immediately; sync failures are logged and the
// daemon keeps going.
func (d *Daemon) Run(ctx context.Context) error {
	d.setStatus(StatusStarting)
	d.mu.Lock()
	d.startTime = time.Now()
	d.mu.Unlock()
	defer d.setStatus(StatusStopped)

	var srv *http.Server
	if d.opts.HTTPAddr != "" {
		ln, err := net.Listen("tcp", d.opts.HTTPAddr)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
				WithContext("addr", d.opts.HTTPAddr).
				Build()
		}
		d.mu.Lock()
		d.addr = ln.Addr()
		d.mu.Unlock()
		srv = &http.Server{Handler: d.routes(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				d.logger.Error("HTTP server stopped", logfields.Error(err))
			}
		}()
		d.logger.Info("HTTP server listening", slog.String("addr", ln.Addr().String()))
	}

	var sched *Scheduler
	if d.opts.Schedule != "" {
		s, err := NewScheduler()
		if err != nil {
			d.shutdownServer(srv)
			return err
		}
		if err := s.ScheduleSync(d.opts.Schedule, func() { d.sync(ctx, TriggerSchedule, nil) }); err != nil {
			_ = s.Stop()
			d.shutdownServer(srv)
			return err
		}
		sched = s
	}

	var watcher *Watcher
	if d.opts.Watch {
		w, err := NewWatcher(d.opts.SiteRoot, d.opts.PagesDir, d.opts.Registry, d.opts.Debounce)
		if err != nil {
			if sched != nil {
				_ = sched.Stop()
			}
			d.shutdownServer(srv)
			return err
		}
		watcher = w.WithLogger(d.logger)
	}

	d.setStatus(StatusRunning)
	d.sync(ctx, TriggerStartup, nil)

	if sched != nil {
		sched.Start()
	}
	var wg sync.WaitGroup
	if watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			watcher.Run(ctx, func(ctx context.Context, courses []string) {
				d.sync(ctx, TriggerWatch, courses)
			})
		}()
	}

	<-ctx.Done()
	d.setStatus(StatusStopping)
	d.logger.Info("Daemon stopping")

	if sched != nil {
		if err := sched.Stop(); err != nil {
			d.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}
	wg.Wait()
	d.shutdownServer(srv)
	return nil
}

// Sync runs one sync now, waiting for any run in progress to finish first.
func (d *Daemon) Sync(ctx context.Context, trigger string, courses []string) (*orchestrator.RunReport, error) {
	return d.sync(ctx, trigger, courses)
}

func (d *Daemon) sync(ctx context.Context, trigger string, courses []string) (*orchestrator.RunReport, error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	report, err := d.runner.Run(ctx, orchestrator.Request{Courses: courses, Trigger: trigger})
	if err != nil {
		d.logger.Error("Sync failed", slog.String("trigger", trigger), logfields.Error(err))
	}
	if report != nil {
		for _, fn := range d.after {
			fn(ctx, report)
		}
	}

	d.mu.Lock()
	d.runs++
	d.lastErr = err
	if report != nil {
		d.last = report
	}
	d.mu.Unlock()
	return report, err
}

// Addr returns the HTTP listen address once Run has bound it.
func (d *Daemon) Addr() net.Addr {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.addr
}

// Status returns the lifecycle state.
func (d *Daemon) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

func (d *Daemon) setStatus(s Status) {
	d.mu.Lock()
	d.status = s
	d.mu.Unlock()
}

func (d *Daemon) shutdownServer(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		d.logger.Warn("HTTP server shutdown failed", logfields.Error(err))
	}
}
