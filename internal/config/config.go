// Package config loads pillarsync.yaml: .env files first, then ${VAR}
// expansion, YAML decoding, normalization, defaults and validation.
package config

import (
	"time"

	"git.home.luguber.info/inful/pillarsync/internal/registry"
	"git.home.luguber.info/inful/pillarsync/internal/schema"
)

// Version is the only configuration version this build reads.
const Version = "1.0"

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "pillarsync.yaml"

// Config is the complete pillarsync configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Site       SiteConfig       `yaml:"site"`
	Courses    []CourseConfig   `yaml:"courses,omitempty"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	FAQ        FAQConfig        `yaml:"faq"`
	Sitemap    SitemapConfig    `yaml:"sitemap"`
	Daemon     DaemonConfig     `yaml:"daemon"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Events     EventsConfig     `yaml:"events"`
	Notify     NotifyConfig     `yaml:"notify"`
	Git        GitConfig        `yaml:"git"`
}

// SiteConfig locates the site tree and the values baked into generated markup.
type SiteConfig struct {
	Root                  string `yaml:"root"`                    // Directory holding the course folders
	BaseURL               string `yaml:"base_url"`                // Public origin, no trailing slash
	Name                  string `yaml:"name"`                    // Publisher name in structured data
	LegacyCanonicalPrefix string `yaml:"legacy_canonical_prefix"` // Canonical links under this prefix are rewritten
	PillarFile            string `yaml:"pillar_file"`             // Pillar page name inside a course folder
	PagesDir              string `yaml:"pages_dir"`               // Lessons folder inside a course folder
	Language              string `yaml:"language"`                // hreflang / inLanguage
}

// CourseConfig overrides the built-in course table when any are listed.
type CourseConfig struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Path      string `yaml:"path"`
}

// ClusterConfig bounds the related-lessons block.
type ClusterConfig struct {
	Limit int `yaml:"limit"`
}

// FAQConfig describes the FAQ section added to pillar pages.
type FAQConfig struct {
	Heading string     `yaml:"heading"`
	Entries []FAQEntry `yaml:"entries,omitempty"`
}

// FAQEntry is one question; Answer is Markdown.
type FAQEntry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// SitemapConfig controls sitemap.xml and robots.txt generation.
type SitemapConfig struct {
	Output      string   `yaml:"output"` // Relative to site.root unless absolute
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	IgnoreFiles []string `yaml:"ignore_files"` // Substrings of file names to skip
	Robots      bool     `yaml:"robots"`
}

// DaemonConfig controls long-running mode.
type DaemonConfig struct {
	Schedule string `yaml:"schedule"` // Cron expression for periodic syncs
	Watch    bool   `yaml:"watch"`    // Re-sync when site files change
	Debounce string `yaml:"debounce"` // Quiet period before a watch-triggered sync
	HTTPAddr string `yaml:"http_addr"`
}

// DebounceDuration parses Debounce; validation guarantees it parses.
func (d DaemonConfig) DebounceDuration() time.Duration {
	v, err := time.ParseDuration(d.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return v
}

// MonitoringConfig represents monitoring and observability configuration
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Health  MonitoringHealth  `yaml:"health"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics represents metrics configuration
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringHealth represents health check configuration
type MonitoringHealth struct {
	Path string `yaml:"path"`
}

// MonitoringLogging represents logging configuration
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// EventsConfig enables the SQLite run history.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// NotifyConfig enables run-completed notifications over NATS JetStream.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"`
}

// GitConfig controls committing the files a sync changed.
type GitConfig struct {
	Commit      bool   `yaml:"commit"`
	Message     string `yaml:"message"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Registry builds the course registry: the configured courses, or the
// built-in table when none are configured.
func (c *Config) Registry() (*registry.Registry, error) {
	if len(c.Courses) == 0 {
		return registry.Default(), nil
	}
	courses := make([]registry.CourseDescriptor, len(c.Courses))
	for i, cc := range c.Courses {
		courses[i] = registry.CourseDescriptor{Key: cc.Key, DisplayName: cc.Name, ShortName: cc.ShortName, SitePath: cc.Path}
	}
	return registry.New(courses)
}

// SchemaSite returns the site values used by the markup builders.
func (c *Config) SchemaSite() schema.Site {
	return schema.Site{BaseURL: c.Site.BaseURL, Name: c.Site.Name, Language: c.Site.Language}
}

// FAQEntries converts the configured FAQ entries.
func (c *Config) FAQEntries() []schema.FAQEntry {
	out := make([]schema.FAQEntry, len(c.FAQ.Entries))
	for i, e := range c.FAQ.Entries {
		out[i] = schema.FAQEntry{Question: e.Question, Answer: e.Answer}
	}
	return out
}
