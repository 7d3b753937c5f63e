package worker

import (
	"sync"
	"time"

	"github.com/caseopen-dev/kazino/internal/feed"
)

// FeedWorker drives the synthetic drop ticker. It runs its own loop
// because the delay between drops is randomized, which a fixed-interval
// schedule cannot express.
type FeedWorker struct {
	dropper *feed.BotDropper
	quit    chan struct{}
	wg      sync.WaitGroup
}

// NewFeedWorker creates a new feed worker
func NewFeedWorker(dropper *feed.BotDropper) *FeedWorker {
	return &FeedWorker{
		dropper: dropper,
		quit:    make(chan struct{}),
	}
}

// Start begins emitting synthetic drops until Stop is called.
func (w *FeedWorker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		timer := time.NewTimer(w.dropper.Delay())
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				w.dropper.Drop(time.Now().UTC())
				timer.Reset(w.dropper.Delay())
			case <-w.quit:
				return
			}
		}
	}()
}

// Stop halts the ticker and waits for the loop to exit.
func (w *FeedWorker) Stop() {
	close(w.quit)
	w.wg.Wait()
}
