package actions

import (
	"context"
	"testing"

	"github.com/relloyd/costpipe/costbyeq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	run := func(ctx context.Context, cfg *CostByEqConfig) (costbyeq.Summary, error) {
		return costbyeq.Summary{}, nil
	}
	_, err := NewScheduler(context.Background(), testLogger(), &ScheduleConfig{CronSpec: "not a schedule"}, NewRunGuard(), run)
	require.Error(t, err)
	c, err := NewScheduler(context.Background(), testLogger(), &ScheduleConfig{CronSpec: "*/5 * * * *"}, NewRunGuard(), run)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}

func TestScheduledRun_SkipsWhileBusy(t *testing.T) {
	calls := 0
	run := func(ctx context.Context, cfg *CostByEqConfig) (costbyeq.Summary, error) {
		calls++
		return costbyeq.Summary{RunID: "r"}, nil
	}
	guard := NewRunGuard()
	cfg := CostByEqConfig{TargetName: "TARGET"}
	release, ok := guard.TryAcquire(cfg.Destination())
	require.True(t, ok)
	scheduledRun(context.Background(), testLogger(), cfg, guard, run)
	assert.Equal(t, 0, calls)
	release()
	scheduledRun(context.Background(), testLogger(), cfg, guard, run)
	assert.Equal(t, 1, calls)
	// The guard is free again after the run.
	release, ok = guard.TryAcquire(cfg.Destination())
	assert.True(t, ok)
	release()
}

func TestRunGuard(t *testing.T) {
	g := NewRunGuard()
	r1, ok := g.TryAcquire("a")
	require.True(t, ok)
	_, ok = g.TryAcquire("a")
	assert.False(t, ok)
	r2, ok := g.TryAcquire("b")
	require.True(t, ok)
	r1()
	r1() // releasing twice is harmless.
	r3, ok := g.TryAcquire("a")
	assert.True(t, ok)
	r2()
	r3()
}
