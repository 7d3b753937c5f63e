package upgrade

import (
	"context"
	"fmt"
	"math"
	"sort"
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

// allowedChances is the whitelist of offered success percentages.
var allowedChances = map[int]bool{15: true, 25: true, 30: true, 50: true, 75: true}

// Feed receives upgrade win events for the live ticker.
type Feed interface {
	Push(event domain.FeedEvent)
}

// Service defines the interface for upgrade gamble operations
type Service interface {
	// ComputeTargets lists the catalog items reachable by upgrading the
	// given stake at the given chance.
	ComputeTargets(ctx context.Context, userID string, entryIDs []string, chance int) (*Targets, error)

	// ResolveUpgrade consumes the stake and either grants the target or
	// pays the consolation, atomically.
	ResolveUpgrade(ctx context.Context, userID string, entryIDs []string, targetItemID string, chance int) (*Result, error)
}

// Targets is the eligible target window for a stake.
type Targets struct {
	Value   int64         `json:"value"`
	Ceiling int64         `json:"ceiling"`
	Items   []domain.Item `json:"items"`
}

// Result is the outcome of a resolved upgrade.
type Result struct {
	Won         bool                   `json:"won"`
	Reward      *domain.InventoryEntry `json:"reward"`
	Consolation int64                  `json:"consolation"`
	Snapshot    *domain.Snapshot       `json:"snapshot"`
}

type service struct {
	repo            repository.User
	catalog         *catalog.Catalog
	locks           *concurrency.LockManager
	feed            Feed
	consolationRate float64
	rnd             func() float64
}

// NewService creates a new upgrade service
func NewService(repo repository.User, cat *catalog.Catalog, locks *concurrency.LockManager, feed Feed, consolationRate float64) Service {
	return &service{
		repo:            repo,
		catalog:         cat,
		locks:           locks,
		feed:            feed,
		consolationRate: consolationRate,
		rnd:             rng.Float64,
	}
}

func (s *service) ComputeTargets(ctx context.Context, userID string, entryIDs []string, chance int) (*Targets, error) {
	if !allowedChances[chance] {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidChance, chance)
	}
	ids, err := uniqueIDs(entryIDs)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]domain.InventoryEntry)
	inventory, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	for _, e := range inventory {
		if e.Status == domain.StatusOwned {
			owned[e.ID] = e
		}
	}

	var value int64
	for _, id := range ids {
		e, ok := owned[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an owned entry", domain.ErrInvalidSelection, id)
		}
		value += e.Price
	}

	t := &Targets{
		Value:   value,
		Ceiling: ceiling(value, chance),
	}
	t.Items = s.targetsInBand(t.Value, t.Ceiling)
	return t, nil
}

func (s *service) ResolveUpgrade(ctx context.Context, userID string, entryIDs []string, targetItemID string, chance int) (*Result, error) {
	log := logger.FromContext(ctx)

	if !allowedChances[chance] {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidChance, chance)
	}
	ids, err := uniqueIDs(entryIDs)
	if err != nil {
		return nil, err
	}

	target, ok := s.catalog.ItemByID(targetItemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, targetItemID)
	}

	res := &Result{}
	var u *domain.User

	err = s.locks.WithLock(userID, func() error {
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

		stakes, err := tx.GetOwnedEntries(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("failed to get stake entries: %w", err)
		}
		if len(stakes) != len(ids) {
			return fmt.Errorf("%w: stake no longer owned", domain.ErrInvalidSelection)
		}

		var value int64
		for _, e := range stakes {
			value += e.Price
		}
		if target.Price < value || target.Price > ceiling(value, chance) {
			return fmt.Errorf("%w: %s at %d%%", domain.ErrTargetNotEligible, target.ID, chance)
		}

		res.Won = rng.Trial(chance, s.rnd())

		// The stake is consumed either way. The changed-row count catches
		// a concurrent request that spent the same entries first.
		outcome := domain.StatusFailed
		if res.Won {
			outcome = domain.StatusUpgraded
		}
		n, err := tx.MarkEntries(ctx, userID, ids, domain.StatusOwned, outcome)
		if err != nil {
			return fmt.Errorf("failed to consume stake: %w", err)
		}
		if n != len(ids) {
			return fmt.Errorf("%w: stake already spent", domain.ErrInvalidSelection)
		}

		u.Stats.Upgrades++
		if res.Won {
			drop := catalog.RollVariant(target, s.rnd())
			entry := domain.InventoryEntry{
				ID:         uuid.NewString(),
				UserID:     u.ID,
				ItemID:     drop.ItemID,
				Name:       drop.Name,
				Rarity:     drop.Rarity,
				Price:      drop.Price,
				StatTrak:   drop.StatTrak,
				Status:     domain.StatusOwned,
				Source:     domain.SourceUpgrade,
				AcquiredAt: time.Now().UTC(),
			}
			if err := tx.InsertEntry(ctx, entry); err != nil {
				return fmt.Errorf("failed to insert reward: %w", err)
			}
			u.Stats.UpgradeWins++
			if err := s.maybeUpdateBestUpgrade(ctx, tx, u, entry); err != nil {
				return err
			}
			res.Reward = &entry
		} else {
			res.Consolation = int64(math.Round(float64(value) * s.consolationRate))
			u.Balance += res.Consolation
			if u.Balance > u.Stats.MaxBalance {
				u.Stats.MaxBalance = u.Balance
			}
		}

		if err := tx.UpdateUser(ctx, *u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Upgrade resolved",
		"userID", userID,
		"target", target.ID,
		"chance", chance,
		"won", res.Won)

	if res.Won && s.feed != nil {
		s.feed.Push(domain.FeedEvent{
			Nickname: u.Nickname,
			ItemName: res.Reward.Name,
			Rarity:   res.Reward.Rarity,
			Price:    res.Reward.Price,
			StatTrak: res.Reward.StatTrak,
			Ts:       res.Reward.AcquiredAt.Unix(),
		})
	}

	res.Snapshot, err = user.Snapshot(ctx, s.repo, u)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// targetsInBand returns catalog items priced within [value, ceiling],
// cheapest first.
func (s *service) targetsInBand(value, ceilingPrice int64) []domain.Item {
	var items []domain.Item
	for _, item := range s.catalog.Items() {
		if item.Price >= value && item.Price <= ceilingPrice {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Price != items[j].Price {
			return items[i].Price < items[j].Price
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (s *service) maybeUpdateBestUpgrade(ctx context.Context, tx repository.UserTx, u *domain.User, entry domain.InventoryEntry) error {
	if u.Stats.BestUpgradeID == "" {
		u.Stats.BestUpgradeID = entry.ID
		return nil
	}
	best, err := tx.GetEntryByID(ctx, u.Stats.BestUpgradeID)
	if err != nil {
		return fmt.Errorf("failed to get best upgrade: %w", err)
	}
	if best == nil || entry.Price > best.Price {
		u.Stats.BestUpgradeID = entry.ID
	}
	return nil
}

// ceiling is the highest target price reachable at the given chance. A
// 25% chance quadruples the stake value.
func ceiling(value int64, chance int) int64 {
	return value * 100 / int64(chance)
}

func uniqueIDs(entryIDs []string) ([]string, error) {
	if len(entryIDs) == 0 {
		return nil, fmt.Errorf("%w: no stake entries", domain.ErrInvalidSelection)
	}
	seen := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		if id == "" || seen[id] {
			return nil, fmt.Errorf("%w: duplicate or empty entry id", domain.ErrInvalidSelection)
		}
		seen[id] = true
	}
	return entryIDs, nil
}
