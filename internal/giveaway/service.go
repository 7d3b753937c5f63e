package giveaway

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
)

// Service defines the interface for giveaway operations
type Service interface {
	// List returns the currently open slate, one giveaway per tier.
	List(ctx context.Context, userID string) ([]Info, error)

	// Join buys the caller a ticket in an open giveaway.
	Join(ctx context.Context, userID, giveawayID string) (*Info, error)

	// ResolveDue draws winners for every giveaway whose window has
	// closed. Called periodically by the worker.
	ResolveDue(ctx context.Context) (int, error)

	// Notifications reports the caller's past and pending participations.
	Notifications(ctx context.Context, userID string) ([]domain.Notification, error)
}

// Info is the client view of one giveaway.
type Info struct {
	ID           string      `json:"id"`
	EntryPrice   int64       `json:"entry"`
	Reward       domain.Drop `json:"reward"`
	EndsAt       int64       `json:"ends_at"`
	Participants int         `json:"participants"`
	Joined       bool        `json:"joined"`
}

type service struct {
	repo    repository.Giveaway
	catalog *catalog.Catalog
	locks   *concurrency.LockManager
	now     func() time.Time
	rnd     func() float64
}

// NewService creates a new giveaway service
func NewService(repo repository.Giveaway, cat *catalog.Catalog, locks *concurrency.LockManager) Service {
	return &service{
		repo:    repo,
		catalog: cat,
		locks:   locks,
		now:     time.Now,
		rnd:     rng.Float64,
	}
}

func (s *service) List(ctx context.Context, userID string) ([]Info, error) {
	now := s.now().UTC()
	infos := make([]Info, 0, len(entryPrices))
	for _, sl := range currentSlots(now) {
		g, err := s.lookup(ctx, sl)
		if err != nil {
			return nil, err
		}

		entries, err := s.repo.ListEntries(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}

		info := Info{
			ID:           g.ID,
			EntryPrice:   g.EntryPrice,
			Reward:       g.Reward,
			EndsAt:       g.StartAt.Unix(),
			Participants: len(entries),
		}
		for _, e := range entries {
			if e.UserID == userID {
				info.Joined = true
				break
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *service) Join(ctx context.Context, userID, giveawayID string) (*Info, error) {
	log := logger.FromContext(ctx)

	sl, ok := parseSlotID(giveawayID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGiveawayNotFound, giveawayID)
	}
	// Only the advertised slate is joinable. Rewards are derivable from
	// the slot index, so an unbounded horizon would let clients cherry
	// pick future slots with the richest prizes.
	if sl.Index != currentIndex(s.now().UTC()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrGiveawayNotFound, giveawayID)
	}

	// Materialize the row outside the join transaction so concurrent
	// joins contend on the persisted giveaway, not on its creation.
	g := buildGiveaway(s.catalog, sl)
	if err := s.repo.UpsertGiveaway(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to materialize giveaway: %w", err)
	}

	var participants int
	err := s.locks.WithLock(userID, func() error {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		stored, err := tx.GetGiveawayForUpdate(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("failed to get giveaway: %w", err)
		}
		if stored == nil {
			return fmt.Errorf("%w: %s", domain.ErrGiveawayNotFound, g.ID)
		}
		if !stored.Open(s.now().UTC()) {
			return fmt.Errorf("%w: %s", domain.ErrGiveawayClosed, g.ID)
		}

		joined, err := tx.HasEntry(ctx, userID, g.ID)
		if err != nil {
			return fmt.Errorf("failed to check entry: %w", err)
		}
		if joined {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyJoined, g.ID)
		}

		u, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if u.Balance < stored.EntryPrice {
			return fmt.Errorf("%w: balance %d, ticket costs %d", domain.ErrInsufficientFunds, u.Balance, stored.EntryPrice)
		}

		u.Balance -= stored.EntryPrice
		if err := tx.UpdateUser(ctx, *u); err != nil {
			return fmt.Errorf("failed to debit user: %w", err)
		}
		if err := tx.AddEntry(ctx, domain.GiveawayEntry{
			UserID:     userID,
			GiveawayID: g.ID,
			EntryPrice: stored.EntryPrice,
			JoinedAt:   s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Giveaway joined", "userID", userID, "giveawayID", g.ID)

	entries, err := s.repo.ListEntries(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	participants = len(entries)

	return &Info{
		ID:           g.ID,
		EntryPrice:   g.EntryPrice,
		Reward:       g.Reward,
		EndsAt:       g.StartAt.Unix(),
		Participants: participants,
		Joined:       true,
	}, nil
}

func (s *service) ResolveDue(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	due, err := s.repo.ListUnresolvedDue(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list due giveaways: %w", err)
	}

	resolved := 0
	for _, g := range due {
		if err := s.resolveOne(ctx, g.ID); err != nil {
			log.Error("Failed to resolve giveaway", "giveawayID", g.ID, "error", err)
			continue
		}
		resolved++
	}
	return resolved, nil
}

func (s *service) resolveOne(ctx context.Context, giveawayID string) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	g, err := tx.GetGiveawayForUpdate(ctx, giveawayID)
	if err != nil {
		return fmt.Errorf("failed to get giveaway: %w", err)
	}
	if g == nil || g.Resolved {
		return nil
	}

	// Read the tickets only after the row lock is held. A deadline-edge
	// join that committed first is in this list; one still pending will
	// see the resolved row and be rejected.
	entries, err := tx.ListEntries(ctx, giveawayID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	winnerID := Draw(entries, s.rnd())
	if err := tx.MarkResolved(ctx, g.ID, winnerID); err != nil {
		return fmt.Errorf("failed to mark resolved: %w", err)
	}

	if winnerID != "" {
		entry := domain.InventoryEntry{
			ID:         uuid.NewString(),
			UserID:     winnerID,
			ItemID:     g.Reward.ItemID,
			Name:       g.Reward.Name,
			Rarity:     g.Reward.Rarity,
			Price:      g.Reward.Price,
			StatTrak:   g.Reward.StatTrak,
			Status:     domain.StatusOwned,
			Source:     domain.SourceGiveaway,
			AcquiredAt: s.now().UTC(),
		}
		if err := tx.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to grant reward: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info("Giveaway resolved",
		"giveawayID", g.ID,
		"participants", len(entries),
		"winnerID", winnerID)
	return nil
}

func (s *service) Notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	entries, err := s.repo.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user entries: %w", err)
	}

	notes := make([]domain.Notification, 0, len(entries))
	for _, e := range entries {
		g, err := s.repo.GetGiveaway(ctx, e.GiveawayID)
		if err != nil {
			return nil, fmt.Errorf("failed to get giveaway: %w", err)
		}
		if g == nil {
			continue
		}
		note := domain.Notification{
			GiveawayID: g.ID,
			StartAt:    g.StartAt.Unix(),
			EntryPrice: g.EntryPrice,
			Status:     domain.NotificationUpcoming,
			Reward:     g.Reward,
		}
		if g.Resolved {
			note.Status = domain.NotificationResolved
			note.Won = g.WinnerID == userID
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// Draw picks the winning ticket. Zero participants means no winner; the
// pot is not refunded.
func Draw(entries []domain.GiveawayEntry, roll float64) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[int(roll*float64(len(entries)))%len(entries)].UserID
}

// lookup returns the persisted giveaway if materialized, the computed
// one otherwise.
func (s *service) lookup(ctx context.Context, sl slot) (domain.Giveaway, error) {
	stored, err := s.repo.GetGiveaway(ctx, sl.ID())
	if err != nil {
		return domain.Giveaway{}, fmt.Errorf("failed to get giveaway: %w", err)
	}
	if stored != nil {
		return *stored, nil
	}
	return buildGiveaway(s.catalog, sl), nil
}
