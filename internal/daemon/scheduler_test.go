package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerNextRun(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	_, err = s.NextRun()
	require.Error(t, err)

	require.NoError(t, s.ScheduleSync("0 */6 * * *", func() {}))
	s.Start()
	t.Cleanup(func() { _ = s.Stop() })

	require.Eventually(t, func() bool {
		next, err := s.NextRun()
		return err == nil && next.After(time.Now())
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerRejectsInvalidCron(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	assert.Error(t, s.ScheduleSync("every six hours", func() {}))
}
