package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/cluster"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
	"git.home.luguber.info/inful/pillarsync/internal/schema"
)

// Default values.
const (
	DefaultBaseURL               = "https://webnotes.site"
	DefaultSiteName              = "Webnotes"
	DefaultLegacyCanonicalPrefix = "https://shehan-fdo.github.io/"
	DefaultLanguage              = "en"
	DefaultSchedule              = "0 */6 * * *"
	DefaultNATSSubject           = "pillarsync.runs.completed"
	DefaultNATSStream            = "PILLARSYNC"
	defaultDebounce              = 2 * time.Second
)

// DefaultIgnoreDirs and DefaultIgnoreFiles are skipped by the sitemap walker.
var (
	DefaultIgnoreDirs  = []string{".git", ".gemini", "_template", "images", "css", "js"}
	DefaultIgnoreFiles = []string{"google", "ads.txt", "CNAME", "robots.txt", "style.css", "index-style.css", ".gitignore"}
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier runs every domain applier in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier for the whole configuration.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&ContentDefaultApplier{},
			&SitemapDefaultApplier{},
			&DaemonDefaultApplier{},
			&MonitoringDefaultApplier{},
			&IntegrationDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// SiteDefaultApplier handles site defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	s := &cfg.Site
	setDefault(&s.Root, ".")
	setDefault(&s.BaseURL, DefaultBaseURL)
	setDefault(&s.Name, DefaultSiteName)
	setDefault(&s.LegacyCanonicalPrefix, DefaultLegacyCanonicalPrefix)
	setDefault(&s.PillarFile, "index.html")
	setDefault(&s.PagesDir, "pages")
	setDefault(&s.Language, DefaultLanguage)
	return nil
}

// ContentDefaultApplier handles cluster and FAQ defaults.
type ContentDefaultApplier struct{}

func (ContentDefaultApplier) Domain() string { return "content" }

func (ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Cluster.Limit <= 0 {
		cfg.Cluster.Limit = cluster.DefaultLimit
	}
	setDefault(&cfg.FAQ.Heading, schema.DefaultFAQHeading)
	if len(cfg.FAQ.Entries) == 0 {
		for _, e := range schema.DefaultFAQ() {
			cfg.FAQ.Entries = append(cfg.FAQ.Entries, FAQEntry{Question: e.Question, Answer: e.Answer})
		}
	}
	return nil
}

// SitemapDefaultApplier handles sitemap defaults.
type SitemapDefaultApplier struct{}

func (SitemapDefaultApplier) Domain() string { return "sitemap" }

func (SitemapDefaultApplier) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Sitemap.Output, "sitemap.xml")
	if cfg.Sitemap.IgnoreDirs == nil {
		cfg.Sitemap.IgnoreDirs = append([]string(nil), DefaultIgnoreDirs...)
	}
	if cfg.Sitemap.IgnoreFiles == nil {
		cfg.Sitemap.IgnoreFiles = append([]string(nil), DefaultIgnoreFiles...)
	}
	return nil
}

// DaemonDefaultApplier handles daemon defaults.
type DaemonDefaultApplier struct{}

func (DaemonDefaultApplier) Domain() string { return "daemon" }

func (DaemonDefaultApplier) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Daemon.Schedule, DefaultSchedule)
	setDefault(&cfg.Daemon.Debounce, defaultDebounce.String())
	setDefault(&cfg.Daemon.HTTPAddr, ":8080")
	return nil
}

// MonitoringDefaultApplier handles monitoring defaults.
type MonitoringDefaultApplier struct{}

func (MonitoringDefaultApplier) Domain() string { return "monitoring" }

func (MonitoringDefaultApplier) ApplyDefaults(cfg *Config) error {
	m := &cfg.Monitoring
	setDefault(&m.Metrics.Path, "/metrics")
	setDefault(&m.Health.Path, "/health")
	if m.Logging.Level == "" {
		m.Logging.Level = LogLevelInfo
	}
	if m.Logging.Format == "" {
		m.Logging.Format = LogFormatText
	}
	return nil
}

// IntegrationDefaultApplier handles events, notify and git defaults.
type IntegrationDefaultApplier struct{}

func (IntegrationDefaultApplier) Domain() string { return "integrations" }

func (IntegrationDefaultApplier) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Events.DBPath, "pillarsync-events.db")
	setDefault(&cfg.Notify.NATSURL, "nats://127.0.0.1:4222")
	setDefault(&cfg.Notify.Stream, DefaultNATSStream)
	setDefault(&cfg.Notify.Subject, DefaultNATSSubject)
	setDefault(&cfg.Git.Message, "Sync SEO metadata and cross-links")
	setDefault(&cfg.Git.AuthorName, "pillarsync")
	setDefault(&cfg.Git.AuthorEmail, "pillarsync@localhost")
	return nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func defaultCourses() []CourseConfig {
	builtin := registry.DefaultCourses()
	out := make([]CourseConfig, len(builtin))
	for i, c := range builtin {
		out[i] = CourseConfig{Key: c.Key, Name: c.DisplayName, ShortName: c.ShortName, Path: c.SitePath}
	}
	return out
}
