package domain

import "time"

// Giveaway is a timed pool lottery. Open while now < StartAt and not
// resolved; entries are one ticket each.
type Giveaway struct {
	ID         string    `json:"id"`
	EntryPrice int64     `json:"entry"`
	Reward     Drop      `json:"reward"`
	StartAt    time.Time `json:"-"`
	Resolved   bool      `json:"-"`
	WinnerID   string    `json:"-"`
}

// Open reports whether the giveaway still accepts entries at the given time.
func (g Giveaway) Open(now time.Time) bool {
	return !g.Resolved && now.Before(g.StartAt)
}

// GiveawayEntry is one user's paid ticket in a giveaway.
type GiveawayEntry struct {
	UserID     string    `json:"-"`
	GiveawayID string    `json:"giveaway_id"`
	EntryPrice int64     `json:"entry"`
	JoinedAt   time.Time `json:"-"`
}

// NotificationStatus marks a giveaway participation as pending or decided.
type NotificationStatus string

const (
	NotificationUpcoming NotificationStatus = "upcoming"
	NotificationResolved NotificationStatus = "resolved"
)

// Notification is the derived view over a user's giveaway participations.
type Notification struct {
	GiveawayID string             `json:"id"`
	StartAt    int64              `json:"start"`
	EntryPrice int64              `json:"entry"`
	Status     NotificationStatus `json:"status"`
	Reward     Drop               `json:"reward"`
	Won        bool               `json:"won"`
}
