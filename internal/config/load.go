package config

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
)

// Load reads, normalizes, defaults and validates the configuration at path.
// Relative site.root and events.db_path values resolve against the
// directory holding the file.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	for _, p := range loadEnvFiles(dir) {
		slog.Debug("Loaded environment file", slog.String("path", p))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithCause(err).
				WithContext("path", path).
				WithContext("hint", "run 'pillarsync init' to create one").
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(dir)
	return cfg, nil
}

// Parse decodes configuration bytes after ${VAR} expansion and runs the
// normalization, defaults and validation passes.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").Build()
	}

	if cfg.Version != Version {
		return nil, errors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", Version).
			Build()
	}

	res, err := NormalizeConfig(&cfg)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "normalize").Build()
	}
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}

	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").Build()
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "configuration validation failed").Build()
	}
	return &cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Site.Root = resolve(c.Site.Root)
	c.Events.DBPath = resolve(c.Events.DBPath)
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists").
			WithContext("path", path).
			WithContext("hint", "use --force to overwrite").
			Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").WithContext("path", path).Build()
	}
	return nil
}

// Example returns the configuration written by Init: every default spelled
// out, plus the built-in course table and FAQ.
func Example() Config {
	cfg := Config{Version: Version}
	_ = NewDefaultApplier().ApplyDefaults(&cfg)
	cfg.Courses = defaultCourses()
	cfg.Notify.NATSURL = "${NATS_URL}"
	return cfg
}
