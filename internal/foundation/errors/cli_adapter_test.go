package errors

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", stderrors.New("x"), 1},
		{"validation", ValidationError("x").Build(), 2},
		{"not found", NewError(CategoryNotFound, "x").Build(), 3},
		{"config", ConfigError("x").Build(), 7},
		{"git", GitError("x").Build(), 8},
		{"filesystem", FileSystemError("x").Build(), 11},
		{"internal", InternalError("x").Build(), 10},
		{"runtime", RuntimeError("x").Build(), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	internal := InternalError("boom").Build()
	assert.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(internal))
	assert.Equal(t, "Error: [internal:fatal] boom", verbose.FormatError(internal))

	cfg := ConfigError("missing base_url").Build()
	assert.Equal(t, "Error: [config:fatal] missing base_url", quiet.FormatError(cfg))
	assert.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var code int
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("missing base_url").WithContext("path", "p.yaml").Build())

	assert.Equal(t, 7, code)
	assert.Contains(t, out.String(), "missing base_url")
}
