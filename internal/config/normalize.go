package config

import (
	"fmt"
	"slices"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and list fields before defaults
// are applied. It mutates c in place; unknown enum values are reset to their
// default with a warning rather than failing the load.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeSite(&c.Site, res)
	normalizeMonitoring(&c.Monitoring, res)
	c.Sitemap.IgnoreDirs = normalizeStringSlice("sitemap.ignore_dirs", c.Sitemap.IgnoreDirs, res)
	c.Sitemap.IgnoreFiles = normalizeStringSlice("sitemap.ignore_files", c.Sitemap.IgnoreFiles, res)
	for i := range c.Courses {
		c.Courses[i].Key = strings.TrimSpace(c.Courses[i].Key)
		c.Courses[i].Path = strings.Trim(strings.TrimSpace(c.Courses[i].Path), "/")
	}
	return res, nil
}

func normalizeSite(s *SiteConfig, res *NormalizationResult) {
	if trimmed := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/"); trimmed != s.BaseURL {
		res.Warnings = append(res.Warnings, warnChanged("site.base_url", s.BaseURL, trimmed))
		s.BaseURL = trimmed
	}
	s.PagesDir = strings.Trim(strings.TrimSpace(s.PagesDir), "/")
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
}

func normalizeMonitoring(m *MonitoringConfig, res *NormalizationResult) {
	if lvl, err := NormalizeLogLevel(string(m.Logging.Level)); err == nil {
		if m.Logging.Level != "" && m.Logging.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.level", m.Logging.Level, lvl))
		}
		m.Logging.Level = lvl
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.level", string(m.Logging.Level), string(LogLevelInfo)))
		m.Logging.Level = LogLevelInfo
	}
	if f, err := NormalizeLogFormat(string(m.Logging.Format)); err == nil {
		if m.Logging.Format != "" && m.Logging.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.format", m.Logging.Format, f))
		}
		m.Logging.Format = f
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.format", string(m.Logging.Format), string(LogFormatText)))
		m.Logging.Format = LogFormatText
	}
}

// normalizeStringSlice trims and dedupes a list, preserving order, and
// records a warning when anything was dropped.
func normalizeStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: dropped %d empty or duplicate entries", label, len(in)-len(out)))
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', using default '%s'", field, value, def)
}
