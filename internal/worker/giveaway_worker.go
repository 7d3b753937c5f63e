package worker

import (
	"context"

	"github.com/caseopen-dev/kazino/internal/giveaway"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/metrics"
)

// GiveawayWorker draws winners for giveaways whose window has closed.
type GiveawayWorker struct {
	svc giveaway.Service
}

// NewGiveawayWorker creates a new giveaway resolution worker
func NewGiveawayWorker(svc giveaway.Service) *GiveawayWorker {
	return &GiveawayWorker{svc: svc}
}

// Process resolves every due giveaway.
func (w *GiveawayWorker) Process(ctx context.Context) error {
	resolved, err := w.svc.ResolveDue(ctx)
	if err != nil {
		return err
	}
	if resolved > 0 {
		metrics.GiveawaysResolved.Add(float64(resolved))
		logger.FromContext(ctx).Info("Giveaways resolved", "count", resolved)
	}
	return nil
}
