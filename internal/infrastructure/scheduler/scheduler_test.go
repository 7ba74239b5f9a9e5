package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob_InvalidSpec(t *testing.T) {
	s := New()
	err := s.AddJob("sync", "not a cron", func() {})
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestAddJob_ReplaceAndRunNow(t *testing.T) {
	s := New()
	calls := ""
	require.NoError(t, s.AddJob("training-sync", "@every 1h", func() { calls += "a" }))
	require.NoError(t, s.AddJob("training-sync", "*/30 * * * * *", func() { calls += "b" }))

	assert.Equal(t, []string{"training-sync"}, s.Jobs())
	assert.True(t, s.RunNow("training-sync"))
	assert.Equal(t, "b", calls)
	assert.False(t, s.RunNow("missing"))
}

func TestStartStop(t *testing.T) {
	s := New()
	require.NoError(t, s.AddJob("noop", "@every 1h", func() {}))
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
