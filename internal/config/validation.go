package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateConfig validates a normalized, defaulted configuration.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validateSite,
		cv.validateCourses,
		cv.validateFAQ,
		cv.validateDaemon,
		cv.validateMonitoring,
		cv.validateIntegrations,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	s := cv.config.Site
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL, got %q", s.BaseURL)
	}
	if strings.ContainsAny(s.PillarFile, `/\`) {
		return fmt.Errorf("site.pillar_file must be a file name, got %q", s.PillarFile)
	}
	if s.PagesDir == "" {
		return errors.New("site.pages_dir cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateCourses() error {
	if _, err := cv.config.Registry(); err != nil {
		return fmt.Errorf("courses: %w", err)
	}
	return nil
}

func (cv *configurationValidator) validateFAQ() error {
	for i, e := range cv.config.FAQ.Entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			return fmt.Errorf("faq.entries[%d]: question and answer are required", i)
		}
	}
	return nil
}

func (cv *configurationValidator) validateDaemon() error {
	d := cv.config.Daemon
	// Same parser the scheduler uses for five-field crontabs.
	if _, err := cron.ParseStandard(d.Schedule); err != nil {
		return fmt.Errorf("daemon.schedule: %w", err)
	}
	if v, err := time.ParseDuration(d.Debounce); err != nil || v < 0 {
		return fmt.Errorf("daemon.debounce must be a non-negative duration, got %q", d.Debounce)
	}
	return nil
}

func (cv *configurationValidator) validateMonitoring() error {
	m := cv.config.Monitoring
	for name, p := range map[string]string{"monitoring.metrics.path": m.Metrics.Path, "monitoring.health.path": m.Health.Path} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with '/', got %q", name, p)
		}
	}
	if m.Metrics.Path == m.Health.Path {
		return errors.New("monitoring.metrics.path and monitoring.health.path must differ")
	}
	return nil
}

func (cv *configurationValidator) validateIntegrations() error {
	c := cv.config
	if c.Notify.Enabled {
		if !strings.Contains(c.Notify.NATSURL, "://") {
			return fmt.Errorf("notify.nats_url must include a scheme, got %q", c.Notify.NATSURL)
		}
		if strings.ContainsAny(c.Notify.Subject, " \t") || strings.HasPrefix(c.Notify.Subject, ".") {
			return fmt.Errorf("notify.subject is not a valid NATS subject: %q", c.Notify.Subject)
		}
	}
	if c.Git.Commit && !strings.Contains(c.Git.AuthorEmail, "@") {
		return fmt.Errorf("git.author_email must be an email address, got %q", c.Git.AuthorEmail)
	}
	return nil
}
