// Package logfields holds the canonical slog attribute keys used by pillarsync.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyCourse     = "course"
	KeyFile       = "file"
	KeyInjection  = "injection"
	KeyOutcome    = "outcome"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Course(key string) slog.Attr     { return slog.String(KeyCourse, key) }
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Injection(n string) slog.Attr    { return slog.String(KeyInjection, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Error renders err as a string attribute; nil becomes the empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
