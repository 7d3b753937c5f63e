package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/user"
)

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Process(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestPool(t *testing.T) {
	p := NewPool(2, 8)
	p.Start()

	job := &countingJob{}
	for i := 0; i < 5; i++ {
		p.Enqueue(job)
	}

	require.Eventually(t, func() bool {
		return job.runs.Load() == 5
	}, time.Second, 10*time.Millisecond)

	p.Stop()
}

func TestDailyResetWorker(t *testing.T) {
	store := user.NewFakeStore()
	today := user.TodayKey(time.Now().UTC())
	store.SeedUser(domain.User{
		ID:         "stale",
		Nickname:   "stale",
		DailyReset: today - 1,
		Stats:      domain.Stats{DailyCases: 9},
	})
	store.SeedUser(domain.User{
		ID:         "fresh",
		Nickname:   "fresh",
		DailyReset: today,
		Stats:      domain.Stats{DailyCases: 3},
	})

	w := NewDailyResetWorker(store)
	require.NoError(t, w.Process(context.Background()))

	stale, err := store.GetUserByID(context.Background(), "stale")
	require.NoError(t, err)
	assert.Zero(t, stale.Stats.DailyCases)
	assert.Equal(t, today, stale.DailyReset)

	fresh, err := store.GetUserByID(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Stats.DailyCases)
}
