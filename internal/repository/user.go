package repository

import (
	"context"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// User defines the interface for user and inventory persistence.
// Lookups return (nil, nil) when the row does not exist; services map that
// to the appropriate domain error.
type User interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByToken(ctx context.Context, token string) (*domain.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error

	GetInventory(ctx context.Context, userID string) ([]domain.InventoryEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.InventoryEntry, error)

	TopPlayers(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)

	// ResetDailyCounters zeroes daily_cases for every user whose counter
	// belongs to an earlier day key. Returns the number of users reset.
	ResetDailyCounters(ctx context.Context, dayKey int) (int64, error)

	BeginTx(ctx context.Context) (UserTx, error)
}

// UserTx defines the interface for user transactions. Every balance or
// inventory mutation for a user happens inside one of these so the whole
// operation commits or none of it does.
type UserTx interface {
	Tx

	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error

	GetOwnedEntries(ctx context.Context, userID string, entryIDs []string) ([]domain.InventoryEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.InventoryEntry, error)
	InsertEntry(ctx context.Context, entry domain.InventoryEntry) error

	// MarkEntries flips entries from one status to another and reports how
	// many rows actually changed. Callers use the count to detect stale
	// selections: an entry spent by a concurrent request no longer matches
	// the from status.
	MarkEntries(ctx context.Context, userID string, entryIDs []string, from, to domain.EntryStatus) (int, error)
}
