package repository

import (
	"context"
	"time"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// Giveaway defines the interface for giveaway persistence.
type Giveaway interface {
	// UpsertGiveaway materializes a scheduled slot. Existing rows keep
	// their resolved state.
	UpsertGiveaway(ctx context.Context, g domain.Giveaway) error
	GetGiveaway(ctx context.Context, giveawayID string) (*domain.Giveaway, error)
	ListUnresolvedDue(ctx context.Context, now time.Time) ([]domain.Giveaway, error)
	ListEntries(ctx context.Context, giveawayID string) ([]domain.GiveawayEntry, error)
	ListEntriesByUser(ctx context.Context, userID string) ([]domain.GiveawayEntry, error)

	BeginTx(ctx context.Context) (GiveawayTx, error)
}

// GiveawayTx covers a join or a resolution as one atomic unit. It carries
// the user-side operations too because both flows move currency or grant
// items in the same commit.
type GiveawayTx interface {
	Tx

	GetGiveawayForUpdate(ctx context.Context, giveawayID string) (*domain.Giveaway, error)
	HasEntry(ctx context.Context, userID, giveawayID string) (bool, error)
	// ListEntries reads the tickets after the giveaway row lock is held,
	// so a join that commits while resolution is pending is either in
	// the draw or rejected, never debited and skipped.
	ListEntries(ctx context.Context, giveawayID string) ([]domain.GiveawayEntry, error)
	AddEntry(ctx context.Context, entry domain.GiveawayEntry) error
	MarkResolved(ctx context.Context, giveawayID, winnerID string) error

	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	InsertEntry(ctx context.Context, entry domain.InventoryEntry) error
}
