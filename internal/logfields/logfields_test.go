package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	assert.Equal(t, "course", Course("net").Key)
	assert.Equal(t, "net", Course("net").Value.String())
	assert.Equal(t, "file", File("pages/a.html").Key)
	assert.Equal(t, "injection", Injection("hreflang").Key)
	assert.InDelta(t, 12.5, DurationMS(12.5).Value.Float64(), 0.0001)
}

func TestError(t *testing.T) {
	assert.Empty(t, Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
