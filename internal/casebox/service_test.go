package casebox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/concurrency"
	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/rng"
	"github.com/caseopen-dev/kazino/internal/user"
)

const testConfig = `
CASE: Test Case = 100
WEAPON: Rusty Pistol | false | consumer | 40 | Test Case
WEAPON: Dragon Rifle | false | covert | 2000 | Test Case
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.env")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

// fixedRolls replays a scripted sequence of random draws.
func fixedRolls(rolls ...float64) func() float64 {
	i := 0
	return func() float64 {
		r := rolls[i%len(rolls)]
		i++
		return r
	}
}

type feedRecorder struct {
	mu     sync.Mutex
	events []domain.FeedEvent
}

func (f *feedRecorder) Push(e domain.FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func newTestService(t *testing.T, store *user.FakeStore, rolls ...float64) (*service, *feedRecorder) {
	t.Helper()
	feed := &feedRecorder{}
	svc := &service{
		repo:    store,
		catalog: testCatalog(t),
		locks:   concurrency.NewLockManager(),
		feed:    feed,
		rnd:     rng.Float64,
	}
	if len(rolls) > 0 {
		svc.rnd = fixedRolls(rolls...)
	}
	return svc, feed
}

func seedPlayer(store *user.FakeStore, balance int64) domain.User {
	u := domain.User{ID: "u1", Nickname: "player1", Balance: balance}
	store.SeedUser(u)
	return u
}

func TestOpenCase_ConsumerDrop(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	// rarity roll, item roll, variant roll
	svc, feed := newTestService(t, store, 0.0, 0.0, 0.9)

	res, err := svc.OpenCase(context.Background(), "u1", "test-case")
	require.NoError(t, err)

	assert.Equal(t, "Rusty Pistol", res.Drop.Name)
	assert.Equal(t, domain.RarityConsumer, res.Drop.Rarity)
	assert.Equal(t, int64(40), res.Drop.Price)
	assert.False(t, res.Drop.StatTrak)
	assert.False(t, res.Won)

	assert.Equal(t, int64(900), res.Snapshot.Balance)
	assert.Equal(t, 1, res.Snapshot.Stats.CasesOpened)
	assert.Equal(t, 1, res.Snapshot.Stats.DailyCases)
	assert.Zero(t, res.Snapshot.Stats.CasesWon)
	require.NotNil(t, res.Snapshot.Stats.BestDrop)
	assert.Equal(t, res.Drop.ID, res.Snapshot.Stats.BestDrop.ID)
	assert.Len(t, res.Snapshot.Inventory, 1)

	require.Len(t, feed.events, 1)
	assert.Equal(t, "player1", feed.events[0].Nickname)
	assert.Equal(t, "Rusty Pistol", feed.events[0].ItemName)
}

func TestOpenCase_CovertWin(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	// 0.98 lands in the covert band of the rarity weights
	svc, _ := newTestService(t, store, 0.98, 0.0, 0.9)

	res, err := svc.OpenCase(context.Background(), "u1", "test-case")
	require.NoError(t, err)

	assert.Equal(t, "Dragon Rifle", res.Drop.Name)
	assert.Equal(t, domain.RarityCovert, res.Drop.Rarity)
	assert.True(t, res.Won)
	assert.Equal(t, 1, res.Snapshot.Stats.CasesWon)
}

func TestOpenCase_StatTrakPromotion(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	svc, _ := newTestService(t, store, 0.98, 0.0, 0.01)

	res, err := svc.OpenCase(context.Background(), "u1", "test-case")
	require.NoError(t, err)

	assert.True(t, res.Drop.StatTrak)
	assert.Equal(t, int64(2600), res.Drop.Price)
}

func TestOpenCase_InsufficientFunds(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 50)
	svc, feed := newTestService(t, store)

	_, err := svc.OpenCase(context.Background(), "u1", "test-case")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	u, err := store.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), u.Balance)
	assert.Zero(t, u.Stats.CasesOpened)

	inv, err := store.GetInventory(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, inv)
	assert.Empty(t, feed.events)
}

func TestOpenCase_UnknownCase(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	svc, _ := newTestService(t, store)

	_, err := svc.OpenCase(context.Background(), "u1", "no-such-case")
	assert.ErrorIs(t, err, domain.ErrCaseNotFound)
}

func TestOpenCase_UserNotFound(t *testing.T) {
	svc, _ := newTestService(t, user.NewFakeStore())

	_, err := svc.OpenCase(context.Background(), "missing", "test-case")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOpenCase_BestDropKeepsHighestPrice(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	svc, _ := newTestService(t, store,
		0.0, 0.0, 0.9, // consumer
		0.98, 0.0, 0.9, // covert
		0.0, 0.0, 0.9, // consumer again
	)
	ctx := context.Background()

	_, err := svc.OpenCase(ctx, "u1", "test-case")
	require.NoError(t, err)
	covert, err := svc.OpenCase(ctx, "u1", "test-case")
	require.NoError(t, err)
	last, err := svc.OpenCase(ctx, "u1", "test-case")
	require.NoError(t, err)

	require.NotNil(t, last.Snapshot.Stats.BestDrop)
	assert.Equal(t, covert.Drop.ID, last.Snapshot.Stats.BestDrop.ID)
}

func TestOpenCase_RollsBackOnInsertFailure(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	svc, feed := newTestService(t, store, 0.0, 0.0, 0.9)

	store.FailOnInsertEntry = errors.New("storage down")

	_, err := svc.OpenCase(context.Background(), "u1", "test-case")
	require.Error(t, err)

	// Nothing from the failed opening may stick
	u, err := store.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), u.Balance)
	assert.Zero(t, u.Stats.CasesOpened)

	inv, err := store.GetInventory(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, inv)
	assert.Empty(t, feed.events)
}

func TestOpenCase_ConcurrentOpensSerialize(t *testing.T) {
	store := user.NewFakeStore()
	seedPlayer(store, 1000)
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.OpenCase(ctx, "u1", "test-case")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.Balance)
	assert.Equal(t, 10, u.Stats.CasesOpened)

	inv, err := store.GetInventory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, inv, 10)
}
