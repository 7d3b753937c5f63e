package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/repository"
)

const giveawayColumns = `giveaway_id, entry_price, reward_item, reward_name,
	reward_rarity, reward_price, start_at, resolved, winner_id`

// GiveawayRepository implements the giveaway repository for PostgreSQL
type GiveawayRepository struct {
	db *pgxpool.Pool
}

// NewGiveawayRepository creates a new GiveawayRepository
func NewGiveawayRepository(db *pgxpool.Pool) *GiveawayRepository {
	return &GiveawayRepository{db: db}
}

func (r *GiveawayRepository) UpsertGiveaway(ctx context.Context, g domain.Giveaway) error {
	// Concurrent joins race to materialize the same slot; first insert
	// wins and later ones are no-ops.
	_, err := r.db.Exec(ctx, `
		INSERT INTO giveaways (giveaway_id, entry_price, reward_item, reward_name,
			reward_rarity, reward_price, start_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (giveaway_id) DO NOTHING
	`, g.ID, g.EntryPrice, g.Reward.ItemID, g.Reward.Name,
		string(g.Reward.Rarity), g.Reward.Price, g.StartAt)
	if err != nil {
		return fmt.Errorf("failed to upsert giveaway: %w", err)
	}
	return nil
}

func (r *GiveawayRepository) GetGiveaway(ctx context.Context, giveawayID string) (*domain.Giveaway, error) {
	return scanGiveaway(r.db.QueryRow(ctx,
		`SELECT `+giveawayColumns+` FROM giveaways WHERE giveaway_id = $1`, giveawayID))
}

func (r *GiveawayRepository) ListUnresolvedDue(ctx context.Context, now time.Time) ([]domain.Giveaway, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+giveawayColumns+`
		FROM giveaways
		WHERE resolved = FALSE AND start_at <= $1
		ORDER BY start_at
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due giveaways: %w", err)
	}
	defer rows.Close()

	var out []domain.Giveaway
	for rows.Next() {
		g, err := scanGiveaway(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GiveawayRepository) ListEntries(ctx context.Context, giveawayID string) ([]domain.GiveawayEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, giveaway_id, entry_price, joined_at
		FROM giveaway_entries
		WHERE giveaway_id = $1
		ORDER BY joined_at
	`, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query giveaway entries: %w", err)
	}
	defer rows.Close()

	return scanGiveawayEntries(rows)
}

func (r *GiveawayRepository) ListEntriesByUser(ctx context.Context, userID string) ([]domain.GiveawayEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, giveaway_id, entry_price, joined_at
		FROM giveaway_entries
		WHERE user_id = $1
		ORDER BY joined_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user entries: %w", err)
	}
	defer rows.Close()

	return scanGiveawayEntries(rows)
}

func (r *GiveawayRepository) BeginTx(ctx context.Context) (repository.GiveawayTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &giveawayTx{tx: tx}, nil
}

type giveawayTx struct {
	tx pgx.Tx
}

func (t *giveawayTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *giveawayTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *giveawayTx) GetGiveawayForUpdate(ctx context.Context, giveawayID string) (*domain.Giveaway, error) {
	return scanGiveaway(t.tx.QueryRow(ctx,
		`SELECT `+giveawayColumns+` FROM giveaways WHERE giveaway_id = $1 FOR UPDATE`, giveawayID))
}

func (t *giveawayTx) HasEntry(ctx context.Context, userID, giveawayID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM giveaway_entries WHERE user_id = $1 AND giveaway_id = $2
		)
	`, userID, giveawayID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check giveaway entry: %w", err)
	}
	return exists, nil
}

func (t *giveawayTx) ListEntries(ctx context.Context, giveawayID string) ([]domain.GiveawayEntry, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT user_id, giveaway_id, entry_price, joined_at
		FROM giveaway_entries
		WHERE giveaway_id = $1
		ORDER BY joined_at
	`, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query giveaway entries: %w", err)
	}
	defer rows.Close()

	return scanGiveawayEntries(rows)
}

func (t *giveawayTx) AddEntry(ctx context.Context, entry domain.GiveawayEntry) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO giveaway_entries (user_id, giveaway_id, entry_price, joined_at)
		VALUES ($1, $2, $3, $4)
	`, entry.UserID, entry.GiveawayID, entry.EntryPrice, entry.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to insert giveaway entry: %w", err)
	}
	return nil
}

func (t *giveawayTx) MarkResolved(ctx context.Context, giveawayID, winnerID string) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE giveaways SET resolved = TRUE, winner_id = $2
		WHERE giveaway_id = $1
	`, giveawayID, nullString(winnerID))
	if err != nil {
		return fmt.Errorf("failed to mark giveaway resolved: %w", err)
	}
	return nil
}

func (t *giveawayTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(t.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE`, userID))
}

func (t *giveawayTx) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, t.tx, user)
}

func (t *giveawayTx) InsertEntry(ctx context.Context, entry domain.InventoryEntry) error {
	return insertEntry(ctx, t.tx, entry)
}

func scanGiveaway(row pgx.Row) (*domain.Giveaway, error) {
	var g domain.Giveaway
	var winner any
	err := row.Scan(&g.ID, &g.EntryPrice, &g.Reward.ItemID, &g.Reward.Name,
		&g.Reward.Rarity, &g.Reward.Price, &g.StartAt, &g.Resolved, &winner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan giveaway: %w", err)
	}
	g.WinnerID = stringOrEmpty(winner)
	return &g, nil
}

func scanGiveawayEntries(rows pgx.Rows) ([]domain.GiveawayEntry, error) {
	var out []domain.GiveawayEntry
	for rows.Next() {
		var e domain.GiveawayEntry
		if err := rows.Scan(&e.UserID, &e.GiveawayID, &e.EntryPrice, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan giveaway entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
