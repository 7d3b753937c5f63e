package casebox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/concurrency"
	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/repository"
	"github.com/caseopen-dev/kazino/internal/rng"
	"github.com/caseopen-dev/kazino/internal/user"
)

// Feed receives drop events for the live ticker.
type Feed interface {
	Push(event domain.FeedEvent)
}

// Service defines the interface for case opening operations
type Service interface {
	// OpenCase debits the case price, rolls a drop and adds it to the
	// user's inventory in one atomic step.
	OpenCase(ctx context.Context, userID, caseID string) (*Result, error)
}

// Result is the outcome of a single case opening.
type Result struct {
	Drop     domain.InventoryEntry
	Won      bool
	Snapshot *domain.Snapshot
}

type service struct {
	repo    repository.User
	catalog *catalog.Catalog
	locks   *concurrency.LockManager
	feed    Feed
	rnd     func() float64
}

// NewService creates a new case opening service
func NewService(repo repository.User, cat *catalog.Catalog, locks *concurrency.LockManager, feed Feed) Service {
	return &service{
		repo:    repo,
		catalog: cat,
		locks:   locks,
		feed:    feed,
		rnd:     rng.Float64,
	}
}

func (s *service) OpenCase(ctx context.Context, userID, caseID string) (*Result, error) {
	log := logger.FromContext(ctx)

	c, ok := s.catalog.CaseByID(caseID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}

	var entry domain.InventoryEntry
	var won bool
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
		if u.Balance < c.Price {
			return fmt.Errorf("%w: balance %d, case costs %d", domain.ErrInsufficientFunds, u.Balance, c.Price)
		}

		drop, err := s.rollDrop(c.ID)
		if err != nil {
			return err
		}

		entry = domain.InventoryEntry{
			ID:         uuid.NewString(),
			UserID:     u.ID,
			ItemID:     drop.ItemID,
			Name:       drop.Name,
			Rarity:     drop.Rarity,
			Price:      drop.Price,
			StatTrak:   drop.StatTrak,
			Status:     domain.StatusOwned,
			Source:     domain.SourceCase,
			CaseID:     c.ID,
			AcquiredAt: time.Now().UTC(),
		}
		if err := tx.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert drop: %w", err)
		}

		u.Balance -= c.Price
		u.Stats.CasesOpened++
		u.Stats.DailyCases++
		won = drop.Price > c.Price
		if won {
			u.Stats.CasesWon++
		}

		if err := s.maybeUpdateBestDrop(ctx, tx, u, entry); err != nil {
			return err
		}

		if err := tx.UpdateUser(ctx, *u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Case opened",
		"userID", userID,
		"caseID", c.ID,
		"item", entry.Name,
		"rarity", entry.Rarity,
		"price", entry.Price,
		"won", won)

	if s.feed != nil {
		s.feed.Push(domain.FeedEvent{
			Nickname: u.Nickname,
			ItemName: entry.Name,
			Rarity:   entry.Rarity,
			Price:    entry.Price,
			StatTrak: entry.StatTrak,
			Ts:       entry.AcquiredAt.Unix(),
		})
	}

	snap, err := user.Snapshot(ctx, s.repo, u)
	if err != nil {
		return nil, err
	}
	return &Result{Drop: entry, Won: won, Snapshot: snap}, nil
}

// rollDrop picks a rarity by weight, then a uniform item within that
// rarity among the case's contents. A case with no items of the rolled
// rarity falls back to a uniform pick over everything it contains.
func (s *service) rollDrop(caseID string) (domain.Drop, error) {
	pool := s.catalog.ItemsByCase(caseID)
	if len(pool) == 0 {
		return domain.Drop{}, fmt.Errorf("%w: case %s has no items", domain.ErrInvalidDropTable, caseID)
	}

	infos := s.catalog.Rarities()
	weights := make([]float64, len(infos))
	for i, info := range infos {
		weights[i] = info.Weight
	}

	idx, err := rng.Pick(weights, s.rnd())
	if err != nil {
		return domain.Drop{}, err
	}
	rolled := infos[idx].ID

	candidates := make([]domain.Item, 0, len(pool))
	for _, item := range pool {
		if item.Rarity == rolled {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}

	item := candidates[int(s.rnd()*float64(len(candidates)))%len(candidates)]
	return catalog.RollVariant(item, s.rnd()), nil
}

// maybeUpdateBestDrop promotes the new entry to best drop when it beats
// the current one on price.
func (s *service) maybeUpdateBestDrop(ctx context.Context, tx repository.UserTx, u *domain.User, entry domain.InventoryEntry) error {
	if u.Stats.BestDropID == "" {
		u.Stats.BestDropID = entry.ID
		return nil
	}
	best, err := tx.GetEntryByID(ctx, u.Stats.BestDropID)
	if err != nil {
		return fmt.Errorf("failed to get best drop: %w", err)
	}
	if best == nil || entry.Price > best.Price {
		u.Stats.BestDropID = entry.ID
	}
	return nil
}
