package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pillarsync/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // Command output; logs go to stderr
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pillarsync.yaml" env:"PILLARSYNC_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync    SyncCmd    `cmd:"" help:"Inject SEO metadata and cross-links into pillar and lesson pages"`
	Sitemap SitemapCmd `cmd:"" help:"Generate sitemap.xml and optionally robots.txt"`
	Daemon  DaemonCmd  `cmd:"" help:"Keep the site in sync on a schedule and when files change"`
	History HistoryCmd `cmd:"" help:"Show recent sync runs from the event store"`
	Courses CoursesCmd `cmd:"" help:"List the configured courses"`
	Inspect InspectCmd `cmd:"" help:"Show a course's parsed pillar graph and lesson clusters"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration and reconfigures logging from its
// monitoring.logging section. --verbose always wins.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = configureLogging(cfg.Monitoring.Logging, root.Verbose)
	return cfg, nil
}

func configureLogging(l config.MonitoringLogging, verbose bool) *slog.Logger {
	level := l.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if l.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}
