package giveaway

import (
	"fmt"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/domain"
)

// Giveaways run on a fixed rolling schedule: every slotDuration a fresh
// slate of tiers opens and the previous slate draws its winners. Slots are
// derived from the clock, so every instance computes the same slate
// without coordination; rows are only materialized when someone joins.
const slotDuration = 5 * time.Hour

// entryPrices defines the ticket cost per tier, cheapest first.
var entryPrices = []int64{199, 349, 549}

// tierRarities biases each tier's reward pool. Falls back to the combined
// premium pool when a catalog has no items of the tier's rarity.
var tierRarities = []domain.Rarity{
	domain.RarityClassified,
	domain.RarityCovert,
	domain.RarityExtraordinary,
}

type slot struct {
	Index int64
	Tier  int
}

// ID is stable across restarts, which is what lets the schedule stay
// implicit until the first join.
func (s slot) ID() string {
	return fmt.Sprintf("ga-%d-%d", s.Index, s.Tier)
}

func (s slot) StartAt() time.Time {
	return time.Unix((s.Index+1)*int64(slotDuration/time.Second), 0).UTC()
}

func currentIndex(now time.Time) int64 {
	return now.Unix() / int64(slotDuration/time.Second)
}

func currentSlots(now time.Time) []slot {
	idx := currentIndex(now)
	slots := make([]slot, len(entryPrices))
	for tier := range entryPrices {
		slots[tier] = slot{Index: idx, Tier: tier}
	}
	return slots
}

func parseSlotID(id string) (slot, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != "ga" {
		return slot{}, false
	}
	idx, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return slot{}, false
	}
	tier, err := strconv.Atoi(parts[2])
	if err != nil || tier < 0 || tier >= len(entryPrices) {
		return slot{}, false
	}
	return slot{Index: idx, Tier: tier}, true
}

// buildGiveaway constructs the deterministic giveaway for a slot. The
// reward is picked with a PRNG seeded from the slot so every instance
// advertises the same prize; only the winner draw uses the secure source.
func buildGiveaway(cat *catalog.Catalog, s slot) domain.Giveaway {
	pool := cat.ItemsByRarity(tierRarities[s.Tier])
	if len(pool) == 0 {
		pool = cat.ItemsByRarity(tierRarities...)
	}

	g := domain.Giveaway{
		ID:         s.ID(),
		EntryPrice: entryPrices[s.Tier],
		StartAt:    s.StartAt(),
	}
	if len(pool) > 0 {
		r := mrand.New(mrand.NewSource(s.Index*31 + int64(s.Tier)))
		item := pool[r.Intn(len(pool))]
		g.Reward = domain.Drop{
			ItemID: item.ID,
			Name:   item.Name,
			Rarity: item.Rarity,
			Price:  item.Price,
		}
	}
	return g
}
