package user

import (
	"context"
	"fmt"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/repository"
)

// Snapshot assembles the user view returned by every engine operation:
// balance, stats with best items resolved, and the full inventory
// (newest first).
func Snapshot(ctx context.Context, repo repository.User, u *domain.User) (*domain.Snapshot, error) {
	inventory, err := repo.GetInventory(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	snap := &domain.Snapshot{
		Nickname:  u.Nickname,
		Balance:   u.Balance,
		LastClaim: unixOrZero(u),
		Inventory: inventory,
		Stats: domain.SnapshotStats{
			CasesOpened: u.Stats.CasesOpened,
			CasesWon:    u.Stats.CasesWon,
			DailyCases:  u.Stats.DailyCases,
			Upgrades:    u.Stats.Upgrades,
			UpgradeWins: u.Stats.UpgradeWins,
			MaxBalance:  u.Stats.MaxBalance,
		},
	}

	snap.Stats.BestDrop, err = resolveEntry(ctx, repo, u.Stats.BestDropID)
	if err != nil {
		return nil, err
	}
	snap.Stats.BestUpgrade, err = resolveEntry(ctx, repo, u.Stats.BestUpgradeID)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func resolveEntry(ctx context.Context, repo repository.User, entryID string) (*domain.InventoryEntry, error) {
	if entryID == "" {
		return nil, nil
	}
	entry, err := repo.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve best entry: %w", err)
	}
	return entry, nil
}

func unixOrZero(u *domain.User) int64 {
	if u.LastClaim.IsZero() {
		return 0
	}
	return u.LastClaim.Unix()
}
