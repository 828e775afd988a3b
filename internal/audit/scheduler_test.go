package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSweeper() *Sweeper {
	store := &stubStore{}
	resolver := NewResolver(newStubPolicyStore(), nil, nil)
	return NewSweeper(store, NewRecorder(store, resolver))
}

func TestScheduler(t *testing.T) {
	t.Run("starts and stops on a valid schedule", func(t *testing.T) {
		s := NewScheduler(newTestSweeper(), "0 3 * * *", nil)

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		assert.NotNil(t, s.NextRun())

		s.Stop()
		assert.False(t, s.IsRunning())
	})

	t.Run("empty schedule is a configured no-op", func(t *testing.T) {
		s := NewScheduler(newTestSweeper(), "", nil)

		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRun())
	})

	t.Run("rejects an invalid cron expression", func(t *testing.T) {
		s := NewScheduler(newTestSweeper(), "not a schedule", nil)

		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("stop is safe to call twice", func(t *testing.T) {
		s := NewScheduler(newTestSweeper(), "0 3 * * *", nil)
		require.NoError(t, s.Start(context.Background()))

		s.Stop()
		assert.NotPanics(t, s.Stop)
	})
}
