package feed

import (
	"sync"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// Size is how many events the live feed retains.
const Size = 16

// Feed is a fixed-size ring of recent drop events, newest first. Real
// drops and synthetic bot drops share the same ring.
type Feed struct {
	mu     sync.RWMutex
	events []domain.FeedEvent
}

// New creates an empty feed.
func New() *Feed {
	return &Feed{events: make([]domain.FeedEvent, 0, Size)}
}

// Push adds an event, evicting the oldest once the ring is full.
func (f *Feed) Push(event domain.FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
	if len(f.events) > Size {
		f.events = f.events[len(f.events)-Size:]
	}
}

// List returns the retained events, newest first.
func (f *Feed) List() []domain.FeedEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.FeedEvent, len(f.events))
	for i, e := range f.events {
		out[len(f.events)-1-i] = e
	}
	return out
}
