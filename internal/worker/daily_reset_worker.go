package worker

import (
	"context"
	"time"

	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/repository"
	"github.com/caseopen-dev/kazino/internal/user"
)

// DailyResetWorker zeroes stale daily counters in bulk. Authentication
// already resets lazily per user; this sweep keeps leaderboard reads of
// inactive users from showing yesterday's counters.
type DailyResetWorker struct {
	repo repository.User
	now  func() time.Time
}

// NewDailyResetWorker creates a new daily reset worker
func NewDailyResetWorker(repo repository.User) *DailyResetWorker {
	return &DailyResetWorker{repo: repo, now: time.Now}
}

// Process resets every user whose counter belongs to an earlier UTC day.
func (w *DailyResetWorker) Process(ctx context.Context) error {
	n, err := w.repo.ResetDailyCounters(ctx, user.TodayKey(w.now().UTC()))
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("Daily counters reset", "users", n)
	}
	return nil
}
