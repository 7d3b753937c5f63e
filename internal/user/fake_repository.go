package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/repository"
)

// FakeStore is an in-memory implementation of repository.User and
// repository.Giveaway for unit and concurrency tests. Transactions take
// the store lock for their whole lifetime and roll back by restoring a
// snapshot, which gives the same serializable all-or-nothing behavior the
// postgres backend provides.
type FakeStore struct {
	mu sync.Mutex

	users     map[string]*domain.User
	entries   map[string]*domain.InventoryEntry
	giveaways map[string]*domain.Giveaway
	tickets   []domain.GiveawayEntry

	// FailOnInsertEntry, when set, makes the next tx InsertEntry fail.
	// Used to verify all-or-nothing commits.
	FailOnInsertEntry error
}

// NewFakeStore creates an empty in-memory store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:     make(map[string]*domain.User),
		entries:   make(map[string]*domain.InventoryEntry),
		giveaways: make(map[string]*domain.Giveaway),
	}
}

// SeedUser inserts a user directly, bypassing transactions.
func (s *FakeStore) SeedUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
}

// SeedEntry inserts an inventory entry directly.
func (s *FakeStore) SeedEntry(e domain.InventoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := e
	s.entries[e.ID] = &cp
}

// SeedGiveaway inserts a giveaway directly.
func (s *FakeStore) SeedGiveaway(g domain.Giveaway) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := g
	s.giveaways[g.ID] = &cp
}

// --- repository.User ---

func (s *FakeStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *FakeStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.users[userID]), nil
}

func (s *FakeStore) GetUserByToken(_ context.Context, token string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Token == token {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (s *FakeStore) GetUserByNickname(_ context.Context, nickname string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Nickname == nickname {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (s *FakeStore) UpdateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
	return nil
}

func (s *FakeStore) GetInventory(_ context.Context, userID string) ([]domain.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventoryLocked(userID), nil
}

func (s *FakeStore) GetEntryByID(_ context.Context, entryID string) (*domain.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntry(s.entries[entryID]), nil
}

func (s *FakeStore) TopPlayers(_ context.Context, limit int) ([]domain.LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]domain.LeaderboardRow, 0, len(s.users))
	for _, u := range s.users {
		total := u.Balance
		for _, e := range s.entries {
			if e.UserID == u.ID && e.Status == domain.StatusOwned {
				total += e.Price
			}
		}
		rows = append(rows, domain.LeaderboardRow{Nickname: u.Nickname, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *FakeStore) ResetDailyCounters(_ context.Context, dayKey int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.DailyReset < dayKey {
			u.Stats.DailyCases = 0
			u.DailyReset = dayKey
			n++
		}
	}
	return n, nil
}

func (s *FakeStore) BeginTx(_ context.Context) (repository.UserTx, error) {
	return s.begin(), nil
}

// --- repository.Giveaway ---

func (s *FakeStore) UpsertGiveaway(_ context.Context, g domain.Giveaway) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.giveaways[g.ID]; !exists {
		cp := g
		s.giveaways[g.ID] = &cp
	}
	return nil
}

func (s *FakeStore) GetGiveaway(_ context.Context, giveawayID string) (*domain.Giveaway, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.giveaways[giveawayID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *FakeStore) ListUnresolvedDue(_ context.Context, now time.Time) ([]domain.Giveaway, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []domain.Giveaway
	for _, g := range s.giveaways {
		if !g.Resolved && !now.Before(g.StartAt) {
			due = append(due, *g)
		}
	}
	return due, nil
}

func (s *FakeStore) ListEntries(_ context.Context, giveawayID string) ([]domain.GiveawayEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.GiveawayEntry
	for _, t := range s.tickets {
		if t.GiveawayID == giveawayID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *FakeStore) ListEntriesByUser(_ context.Context, userID string) ([]domain.GiveawayEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.GiveawayEntry
	for _, t := range s.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.After(out[j].JoinedAt) })
	return out, nil
}

// BeginGiveawayTx starts a giveaway transaction. Named differently from
// BeginTx because the two repository interfaces disagree on return type.
func (s *FakeStore) BeginGiveawayTx(_ context.Context) (repository.GiveawayTx, error) {
	return s.begin(), nil
}

// GiveawayRepo adapts the store to repository.Giveaway.
func (s *FakeStore) GiveawayRepo() repository.Giveaway {
	return fakeGiveawayRepo{s}
}

type fakeGiveawayRepo struct{ *FakeStore }

func (r fakeGiveawayRepo) BeginTx(ctx context.Context) (repository.GiveawayTx, error) {
	return r.FakeStore.BeginGiveawayTx(ctx)
}

// --- transaction ---

type fakeTx struct {
	store *FakeStore
	prev  snapshot
	done  bool
}

type snapshot struct {
	users     map[string]domain.User
	entries   map[string]domain.InventoryEntry
	giveaways map[string]domain.Giveaway
	tickets   []domain.GiveawayEntry
}

func (s *FakeStore) begin() *fakeTx {
	s.mu.Lock()
	prev := snapshot{
		users:     make(map[string]domain.User, len(s.users)),
		entries:   make(map[string]domain.InventoryEntry, len(s.entries)),
		giveaways: make(map[string]domain.Giveaway, len(s.giveaways)),
		tickets:   append([]domain.GiveawayEntry(nil), s.tickets...),
	}
	for id, u := range s.users {
		prev.users[id] = *u
	}
	for id, e := range s.entries {
		prev.entries[id] = *e
	}
	for id, g := range s.giveaways {
		prev.giveaways[id] = *g
	}
	return &fakeTx{store: s, prev: prev}
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	s := t.store
	s.users = make(map[string]*domain.User, len(t.prev.users))
	for id := range t.prev.users {
		u := t.prev.users[id]
		s.users[id] = &u
	}
	s.entries = make(map[string]*domain.InventoryEntry, len(t.prev.entries))
	for id := range t.prev.entries {
		e := t.prev.entries[id]
		s.entries[id] = &e
	}
	s.giveaways = make(map[string]*domain.Giveaway, len(t.prev.giveaways))
	for id := range t.prev.giveaways {
		g := t.prev.giveaways[id]
		s.giveaways[id] = &g
	}
	s.tickets = t.prev.tickets
	s.mu.Unlock()
	return nil
}

func (t *fakeTx) GetUserForUpdate(_ context.Context, userID string) (*domain.User, error) {
	return copyUser(t.store.users[userID]), nil
}

func (t *fakeTx) UpdateUser(_ context.Context, u domain.User) error {
	cp := u
	t.store.users[u.ID] = &cp
	return nil
}

func (t *fakeTx) GetOwnedEntries(_ context.Context, userID string, entryIDs []string) ([]domain.InventoryEntry, error) {
	var out []domain.InventoryEntry
	for _, id := range entryIDs {
		e, ok := t.store.entries[id]
		if ok && e.UserID == userID && e.Status == domain.StatusOwned {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (t *fakeTx) GetEntryByID(_ context.Context, entryID string) (*domain.InventoryEntry, error) {
	return copyEntry(t.store.entries[entryID]), nil
}

func (t *fakeTx) InsertEntry(_ context.Context, entry domain.InventoryEntry) error {
	if err := t.store.FailOnInsertEntry; err != nil {
		t.store.FailOnInsertEntry = nil
		return err
	}
	cp := entry
	t.store.entries[entry.ID] = &cp
	return nil
}

func (t *fakeTx) MarkEntries(_ context.Context, userID string, entryIDs []string, from, to domain.EntryStatus) (int, error) {
	n := 0
	for _, id := range entryIDs {
		e, ok := t.store.entries[id]
		if ok && e.UserID == userID && e.Status == from {
			e.Status = to
			n++
		}
	}
	return n, nil
}

func (t *fakeTx) GetGiveawayForUpdate(_ context.Context, giveawayID string) (*domain.Giveaway, error) {
	g, ok := t.store.giveaways[giveawayID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (t *fakeTx) HasEntry(_ context.Context, userID, giveawayID string) (bool, error) {
	for _, tk := range t.store.tickets {
		if tk.UserID == userID && tk.GiveawayID == giveawayID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) ListEntries(_ context.Context, giveawayID string) ([]domain.GiveawayEntry, error) {
	var out []domain.GiveawayEntry
	for _, tk := range t.store.tickets {
		if tk.GiveawayID == giveawayID {
			out = append(out, tk)
		}
	}
	return out, nil
}

func (t *fakeTx) AddEntry(_ context.Context, entry domain.GiveawayEntry) error {
	t.store.tickets = append(t.store.tickets, entry)
	return nil
}

func (t *fakeTx) MarkResolved(_ context.Context, giveawayID, winnerID string) error {
	if g, ok := t.store.giveaways[giveawayID]; ok {
		g.Resolved = true
		g.WinnerID = winnerID
	}
	return nil
}

func (s *FakeStore) inventoryLocked(userID string) []domain.InventoryEntry {
	var out []domain.InventoryEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcquiredAt.After(out[j].AcquiredAt) })
	return out
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func copyEntry(e *domain.InventoryEntry) *domain.InventoryEntry {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}
