package upgrade

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

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
WEAPON: Pistol A | false | consumer | 100 | Test Case
WEAPON: Rifle B | false | milspec | 200 | Test Case
WEAPON: Rifle C | false | classified | 400 | Test Case
WEAPON: Knife D | false | covert | 1000 | Test Case
`

const (
	targetRifleB = "rifle-b-milspec-200-0-1"
	targetRifleC = "rifle-c-classified-400-0-2"
	targetKnifeD = "knife-d-covert-1000-0-3"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.env")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func fixedRolls(rolls ...float64) func() float64 {
	i := 0
	return func() float64 {
		r := rolls[i%len(rolls)]
		i++
		return r
	}
}

func newTestService(t *testing.T, store *user.FakeStore, rolls ...float64) *service {
	t.Helper()
	svc := &service{
		repo:            store,
		catalog:         testCatalog(t),
		locks:           concurrency.NewLockManager(),
		consolationRate: 0.05,
		rnd:             rng.Float64,
	}
	if len(rolls) > 0 {
		svc.rnd = fixedRolls(rolls...)
	}
	return svc
}

func seedStake(store *user.FakeStore, entryID string, price int64) {
	store.SeedEntry(domain.InventoryEntry{
		ID:         entryID,
		UserID:     "u1",
		ItemID:     "pistol-a-consumer-100-0-0",
		Name:       "Pistol A",
		Rarity:     domain.RarityConsumer,
		Price:      price,
		Status:     domain.StatusOwned,
		Source:     domain.SourceCase,
		AcquiredAt: time.Now().UTC(),
	})
}

func TestComputeTargets(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1", Balance: 500})
	seedStake(store, "stake-1", 100)
	svc := newTestService(t, store)
	ctx := context.Background()

	got, err := svc.ComputeTargets(ctx, "u1", []string{"stake-1"}, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Value)
	assert.Equal(t, int64(400), got.Ceiling)
	require.Len(t, got.Items, 3)
	assert.Equal(t, int64(100), got.Items[0].Price)
	assert.Equal(t, int64(200), got.Items[1].Price)
	assert.Equal(t, int64(400), got.Items[2].Price)

	got, err = svc.ComputeTargets(ctx, "u1", []string{"stake-1"}, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Ceiling)
	assert.Len(t, got.Items, 2)
}

func TestComputeTargets_Validation(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1"})
	seedStake(store, "stake-1", 100)
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.ComputeTargets(ctx, "u1", []string{"stake-1"}, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidChance)

	_, err = svc.ComputeTargets(ctx, "u1", []string{"not-mine"}, 25)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	_, err = svc.ComputeTargets(ctx, "u1", nil, 25)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	_, err = svc.ComputeTargets(ctx, "u1", []string{"stake-1", "stake-1"}, 25)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestResolveUpgrade_Win(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1", Balance: 500})
	seedStake(store, "stake-1", 100)
	// trial roll wins at 25%, variant roll skips StatTrak
	svc := newTestService(t, store, 0.0, 0.9)

	res, err := svc.ResolveUpgrade(context.Background(), "u1", []string{"stake-1"}, targetRifleC, 25)
	require.NoError(t, err)

	assert.True(t, res.Won)
	require.NotNil(t, res.Reward)
	assert.Equal(t, "Rifle C", res.Reward.Name)
	assert.Equal(t, int64(400), res.Reward.Price)
	assert.Equal(t, domain.SourceUpgrade, res.Reward.Source)
	assert.Zero(t, res.Consolation)

	stake, err := store.GetEntryByID(context.Background(), "stake-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpgraded, stake.Status)

	assert.Equal(t, 1, res.Snapshot.Stats.Upgrades)
	assert.Equal(t, 1, res.Snapshot.Stats.UpgradeWins)
	require.NotNil(t, res.Snapshot.Stats.BestUpgrade)
	assert.Equal(t, res.Reward.ID, res.Snapshot.Stats.BestUpgrade.ID)
	assert.Equal(t, int64(500), res.Snapshot.Balance)
}

func TestResolveUpgrade_Loss(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1", Balance: 500, Stats: domain.Stats{MaxBalance: 500}})
	seedStake(store, "stake-1", 100)
	svc := newTestService(t, store, 0.9)

	res, err := svc.ResolveUpgrade(context.Background(), "u1", []string{"stake-1"}, targetRifleC, 25)
	require.NoError(t, err)

	assert.False(t, res.Won)
	assert.Nil(t, res.Reward)
	assert.Equal(t, int64(5), res.Consolation)
	assert.Equal(t, int64(505), res.Snapshot.Balance)
	assert.Equal(t, int64(505), res.Snapshot.Stats.MaxBalance)
	assert.Equal(t, 1, res.Snapshot.Stats.Upgrades)
	assert.Zero(t, res.Snapshot.Stats.UpgradeWins)

	stake, err := store.GetEntryByID(context.Background(), "stake-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stake.Status)
}

func TestResolveUpgrade_MultiStake(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1"})
	seedStake(store, "stake-1", 100)
	seedStake(store, "stake-2", 150)
	svc := newTestService(t, store, 0.0, 0.9)

	// combined value 250, 25% ceiling 1000
	res, err := svc.ResolveUpgrade(context.Background(), "u1", []string{"stake-1", "stake-2"}, targetKnifeD, 25)
	require.NoError(t, err)
	require.True(t, res.Won)
	assert.Equal(t, int64(1000), res.Reward.Price)

	for _, id := range []string{"stake-1", "stake-2"} {
		e, err := store.GetEntryByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUpgraded, e.Status)
	}
}

func TestResolveUpgrade_TargetOutsideBand(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1"})
	seedStake(store, "stake-1", 100)
	svc := newTestService(t, store)
	ctx := context.Background()

	// 25% on a 100 stake caps out at 400
	_, err := svc.ResolveUpgrade(ctx, "u1", []string{"stake-1"}, targetKnifeD, 25)
	assert.ErrorIs(t, err, domain.ErrTargetNotEligible)

	// target below the stake value is no upgrade at all
	seedStake(store, "stake-2", 300)
	_, err = svc.ResolveUpgrade(ctx, "u1", []string{"stake-2"}, targetRifleB, 75)
	assert.ErrorIs(t, err, domain.ErrTargetNotEligible)

	_, err = svc.ResolveUpgrade(ctx, "u1", []string{"stake-1"}, "no-such-item", 25)
	assert.ErrorIs(t, err, domain.ErrTargetNotFound)

	// nothing consumed by rejected attempts
	e, err := store.GetEntryByID(ctx, "stake-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOwned, e.Status)
}

func TestResolveUpgrade_DoubleSubmitConsumesOnce(t *testing.T) {
	store := user.NewFakeStore()
	store.SeedUser(domain.User{ID: "u1", Nickname: "player1"})
	seedStake(store, "stake-1", 100)
	svc := newTestService(t, store, 0.9)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ResolveUpgrade(context.Background(), "u1", []string{"stake-1"}, targetRifleC, 25)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejections int
	for err := range results {
		if err == nil {
			wins++
		} else if errors.Is(err, domain.ErrInvalidSelection) {
			rejections++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, rejections)

	// stake consumed exactly once, one consolation paid
	u, err := store.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.Balance)
	assert.Equal(t, 1, u.Stats.Upgrades)
}

func TestResolveUpgrade_InvalidChance(t *testing.T) {
	svc := newTestService(t, user.NewFakeStore())

	_, err := svc.ResolveUpgrade(context.Background(), "u1", []string{"stake-1"}, targetRifleC, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidChance)
}
