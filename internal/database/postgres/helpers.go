package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caseopen-dev/kazino/internal/domain"
)

const entryColumns = `entry_id, user_id, item_id, name, rarity, price,
	stattrak, status, source, case_id, acquired_at`

// executor is satisfied by both pgxpool.Pool and pgx.Tx so the write
// helpers can serve either path.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateUser(ctx context.Context, db executor, u domain.User) error {
	_, err := db.Exec(ctx, `
		UPDATE users SET
			nickname = $2, token = $3, balance = $4, last_claim = $5, daily_reset = $6,
			cases_opened = $7, cases_won = $8, daily_cases = $9,
			upgrades = $10, upgrade_wins = $11, max_balance = $12,
			best_drop_id = $13, best_upgrade_id = $14
		WHERE user_id = $1
	`, u.ID, u.Nickname, u.Token, u.Balance, nullTime(u.LastClaim), u.DailyReset,
		u.Stats.CasesOpened, u.Stats.CasesWon, u.Stats.DailyCases,
		u.Stats.Upgrades, u.Stats.UpgradeWins, u.Stats.MaxBalance,
		nullString(u.Stats.BestDropID), nullString(u.Stats.BestUpgradeID))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func insertEntry(ctx context.Context, db executor, e domain.InventoryEntry) error {
	_, err := db.Exec(ctx, `
		INSERT INTO inventory_entries (entry_id, user_id, item_id, name, rarity,
			price, stattrak, status, source, case_id, acquired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.UserID, e.ItemID, e.Name, string(e.Rarity), e.Price, e.StatTrak,
		string(e.Status), string(e.Source), nullString(e.CaseID), e.AcquiredAt)
	if err != nil {
		return fmt.Errorf("failed to insert inventory entry: %w", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*domain.InventoryEntry, error) {
	var e domain.InventoryEntry
	var caseID any
	err := row.Scan(&e.ID, &e.UserID, &e.ItemID, &e.Name, &e.Rarity,
		&e.Price, &e.StatTrak, &e.Status, &e.Source, &caseID, &e.AcquiredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
	}
	e.CaseID = stringOrEmpty(caseID)
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]domain.InventoryEntry, error) {
	var out []domain.InventoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timeOrZero(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}

func stringOrEmpty(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case [16]byte:
		// pgx returns UUID columns as byte arrays when no type map entry
		// overrides it; format back to the canonical text form.
		return formatUUID(s)
	}
	return ""
}

func formatUUID(b [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
