package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/repository"
)

const userColumns = `user_id, nickname, token, balance, last_claim, daily_reset,
	cases_opened, cases_won, daily_cases, upgrades, upgrade_wins, max_balance,
	best_drop_id, best_upgrade_id, created_at`

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, nickname, token, balance, last_claim, daily_reset,
			cases_opened, cases_won, daily_cases, upgrades, upgrade_wins, max_balance,
			best_drop_id, best_upgrade_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query, userArgs(*user)...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

func (r *UserRepository) GetUserByToken(ctx context.Context, token string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE token = $1`, token))
}

func (r *UserRepository) GetUserByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname))
}

func (r *UserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, r.db, user)
}

func (r *UserRepository) GetInventory(ctx context.Context, userID string) ([]domain.InventoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM inventory_entries
		WHERE user_id = $1
		ORDER BY acquired_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *UserRepository) GetEntryByID(ctx context.Context, entryID string) (*domain.InventoryEntry, error) {
	return scanEntry(r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM inventory_entries WHERE entry_id = $1`, entryID))
}

func (r *UserRepository) TopPlayers(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	// Total worth is balance plus the value of still-owned inventory.
	rows, err := r.db.Query(ctx, `
		SELECT u.nickname, u.balance + COALESCE(SUM(e.price), 0) AS total
		FROM users u
		LEFT JOIN inventory_entries e ON e.user_id = u.user_id AND e.status = 'owned'
		GROUP BY u.user_id, u.nickname, u.balance
		ORDER BY total DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []domain.LeaderboardRow
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(&row.Nickname, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *UserRepository) ResetDailyCounters(ctx context.Context, dayKey int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET daily_cases = 0, daily_reset = $1
		WHERE daily_reset < $1
	`, dayKey)
	if err != nil {
		return 0, fmt.Errorf("failed to reset daily counters: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) BeginTx(ctx context.Context) (repository.UserTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &userTx{tx: tx}, nil
}

type userTx struct {
	tx pgx.Tx
}

func (t *userTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *userTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *userTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(t.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE`, userID))
}

func (t *userTx) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, t.tx, user)
}

func (t *userTx) GetOwnedEntries(ctx context.Context, userID string, entryIDs []string) ([]domain.InventoryEntry, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+entryColumns+`
		FROM inventory_entries
		WHERE user_id = $1 AND entry_id = ANY($2) AND status = 'owned'
		FOR UPDATE
	`, userID, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (t *userTx) GetEntryByID(ctx context.Context, entryID string) (*domain.InventoryEntry, error) {
	return scanEntry(t.tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM inventory_entries WHERE entry_id = $1`, entryID))
}

func (t *userTx) InsertEntry(ctx context.Context, entry domain.InventoryEntry) error {
	return insertEntry(ctx, t.tx, entry)
}

func (t *userTx) MarkEntries(ctx context.Context, userID string, entryIDs []string, from, to domain.EntryStatus) (int, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE inventory_entries SET status = $4
		WHERE user_id = $1 AND entry_id = ANY($2) AND status = $3
	`, userID, entryIDs, string(from), string(to))
	if err != nil {
		return 0, fmt.Errorf("failed to mark entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func userArgs(u domain.User) []any {
	return []any{
		u.ID, u.Nickname, u.Token, u.Balance, nullTime(u.LastClaim), u.DailyReset,
		u.Stats.CasesOpened, u.Stats.CasesWon, u.Stats.DailyCases,
		u.Stats.Upgrades, u.Stats.UpgradeWins, u.Stats.MaxBalance,
		nullString(u.Stats.BestDropID), nullString(u.Stats.BestUpgradeID), u.CreatedAt,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var lastClaim, bestDrop, bestUpgrade any
	err := row.Scan(
		&u.ID, &u.Nickname, &u.Token, &u.Balance, &lastClaim, &u.DailyReset,
		&u.Stats.CasesOpened, &u.Stats.CasesWon, &u.Stats.DailyCases,
		&u.Stats.Upgrades, &u.Stats.UpgradeWins, &u.Stats.MaxBalance,
		&bestDrop, &bestUpgrade, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.LastClaim = timeOrZero(lastClaim)
	u.Stats.BestDropID = stringOrEmpty(bestDrop)
	u.Stats.BestUpgradeID = stringOrEmpty(bestUpgrade)
	return &u, nil
}
