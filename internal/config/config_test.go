package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Site.Root)
	assert.Equal(t, DefaultBaseURL, cfg.Site.BaseURL)
	assert.Equal(t, DefaultLegacyCanonicalPrefix, cfg.Site.LegacyCanonicalPrefix)
	assert.Equal(t, "index.html", cfg.Site.PillarFile)
	assert.Equal(t, "pages", cfg.Site.PagesDir)
	assert.Equal(t, 5, cfg.Cluster.Limit)
	assert.Equal(t, "Frequently Asked Questions", cfg.FAQ.Heading)
	assert.Len(t, cfg.FAQ.Entries, 3)
	assert.Equal(t, "sitemap.xml", cfg.Sitemap.Output)
	assert.Contains(t, cfg.Sitemap.IgnoreDirs, "_template")
	assert.Equal(t, 2*time.Second, cfg.Daemon.DebounceDuration())
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
	assert.False(t, cfg.Events.Enabled)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, 8, reg.Len())
}

func TestParseRejectsWrongVersion(t *testing.T) {
	_, err := Parse([]byte(`version: "2.0"`))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParseExpandsEnvironment(t *testing.T) {
	t.Setenv("PILLARSYNC_TEST_URL", "https://notes.example/")
	cfg, err := Parse([]byte("version: \"1.0\"\nsite:\n  base_url: ${PILLARSYNC_TEST_URL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example", cfg.Site.BaseURL, "trailing slash is normalized away")
}

func TestParseNormalizesLogging(t *testing.T) {
	cfg, err := Parse([]byte("version: \"1.0\"\nmonitoring:\n  logging:\n    level: \" DEBUG \"\n    format: Loud\n"))
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"relative base url", "site:\n  base_url: webnotes.site\n"},
		{"pillar file with path", "site:\n  pillar_file: a/index.html\n"},
		{"bad schedule", "daemon:\n  schedule: every day\n"},
		{"bad debounce", "daemon:\n  debounce: soon\n"},
		{"clashing paths", "monitoring:\n  metrics:\n    path: /x\n  health:\n    path: /x\n"},
		{"duplicate course", "courses:\n  - {key: a, name: A, short_name: A, path: a}\n  - {key: a, name: B, short_name: B, path: b}\n"},
		{"empty faq answer", "faq:\n  entries:\n    - question: Why?\n"},
		{"bad nats subject", "notify:\n  enabled: true\n  subject: has space\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte("version: \"1.0\"\n" + tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation), err.Error())
		})
	}
}

func TestCustomCourses(t *testing.T) {
	cfg, err := Parse([]byte(`version: "1.0"
courses:
  - key: Go-Notes
    name: Go Fundamentals
    short_name: Go
    path: /Lang/Go-Notes/
`))
	require.NoError(t, err)
	reg, err := cfg.Registry()
	require.NoError(t, err)
	c, ok := reg.Lookup("Go-Notes")
	require.True(t, ok)
	assert.Equal(t, "Lang/Go-Notes", c.SitePath)
}

func TestLoadResolvesPathsAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { _ = os.Unsetenv("PILLARSYNC_TEST_SITE_NAME") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PILLARSYNC_TEST_SITE_NAME=From Dotenv\n"), 0o600))
	path := filepath.Join(dir, "pillarsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`version: "1.0"
site:
  root: site
  name: ${PILLARSYNC_TEST_SITE_NAME}
events:
  enabled: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Dotenv", cfg.Site.Name)
	assert.Equal(t, filepath.Join(dir, "site"), cfg.Site.Root)
	assert.Equal(t, filepath.Join(dir, "pillarsync-events.db"), cfg.Events.DBPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestInitWritesLoadableExample(t *testing.T) {
	t.Setenv("NATS_URL", "")
	path := filepath.Join(t.TempDir(), "pillarsync.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Courses, 8)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Notify.NATSURL)

	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}

func TestSchemaConversions(t *testing.T) {
	cfg, err := Parse([]byte(`version: "1.0"
site:
  name: Notes
faq:
  heading: Questions
  entries:
    - question: Free?
      answer: "**Yes**"
`))
	require.NoError(t, err)
	assert.Equal(t, "Notes", cfg.SchemaSite().Name)
	assert.Equal(t, "en", cfg.SchemaSite().Language)
	entries := cfg.FAQEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "**Yes**", entries[0].Answer)
}
