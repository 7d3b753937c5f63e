package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/caseopen-dev/kazino/internal/concurrency"
	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/repository"
	"github.com/caseopen-dev/kazino/internal/user"
)

// Service defines the interface for balance operations
type Service interface {
	// SellItem converts an owned inventory entry back into currency at
	// its denormalized price.
	SellItem(ctx context.Context, userID, entryID string) (*SellResult, error)

	// ClaimBonus credits the periodic bonus, subject to the cooldown.
	ClaimBonus(ctx context.Context, userID string) (*ClaimResult, error)
}

// SellResult reports a completed sale.
type SellResult struct {
	Credited int64            `json:"credited"`
	Snapshot *domain.Snapshot `json:"snapshot"`
}

// ClaimResult reports a completed bonus claim.
type ClaimResult struct {
	Credited int64            `json:"credited"`
	NextAt   int64            `json:"next_at"`
	Snapshot *domain.Snapshot `json:"snapshot"`
}

type service struct {
	repo        repository.User
	locks       *concurrency.LockManager
	bonusAmount int64
	cooldown    time.Duration
	now         func() time.Time
}

// NewService creates a new economy service
func NewService(repo repository.User, locks *concurrency.LockManager, bonusAmount int64, cooldown time.Duration) Service {
	return &service{
		repo:        repo,
		locks:       locks,
		bonusAmount: bonusAmount,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

func (s *service) SellItem(ctx context.Context, userID, entryID string) (*SellResult, error) {
	log := logger.FromContext(ctx)

	res := &SellResult{}
	var u *domain.User

	err := s.locks.WithLock(userID, func() error {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		u, err = tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if u == nil {
			return domain.ErrUserNotFound
		}

		entry, err := tx.GetEntryByID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}
		if entry == nil || entry.UserID != userID || entry.Status != domain.StatusOwned {
			return fmt.Errorf("%w: %s", domain.ErrNotOwned, entryID)
		}

		n, err := tx.MarkEntries(ctx, userID, []string{entryID}, domain.StatusOwned, domain.StatusSold)
		if err != nil {
			return fmt.Errorf("failed to mark entry sold: %w", err)
		}
		if n != 1 {
			return fmt.Errorf("%w: %s", domain.ErrNotOwned, entryID)
		}

		res.Credited = entry.Price
		u.Balance += entry.Price
		if u.Balance > u.Stats.MaxBalance {
			u.Stats.MaxBalance = u.Balance
		}

		if err := tx.UpdateUser(ctx, *u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Item sold", "userID", userID, "entryID", entryID, "credited", res.Credited)

	res.Snapshot, err = user.Snapshot(ctx, s.repo, u)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) ClaimBonus(ctx context.Context, userID string) (*ClaimResult, error) {
	log := logger.FromContext(ctx)

	res := &ClaimResult{}
	var u *domain.User

	err := s.locks.WithLock(userID, func() error {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		u, err = tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if u == nil {
			return domain.ErrUserNotFound
		}

		now := s.now().UTC()
		if !u.LastClaim.IsZero() {
			ready := u.LastClaim.Add(s.cooldown)
			if now.Before(ready) {
				return fmt.Errorf("%w: ready at %s", domain.ErrOnCooldown, ready.Format(time.RFC3339))
			}
		}

		res.Credited = s.bonusAmount
		u.Balance += s.bonusAmount
		u.LastClaim = now
		if u.Balance > u.Stats.MaxBalance {
			u.Stats.MaxBalance = u.Balance
		}

		if err := tx.UpdateUser(ctx, *u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		res.NextAt = now.Add(s.cooldown).Unix()
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Bonus claimed", "userID", userID, "credited", res.Credited)

	res.Snapshot, err = user.Snapshot(ctx, s.repo, u)
	if err != nil {
		return nil, err
	}
	return res, nil
}
