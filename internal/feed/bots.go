package feed

import (
	"time"

	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/rng"
)

// Synthetic drops keep the ticker alive on a quiet site. Bots roll
// against the same rarity weights and StatTrak odds as real openings so
// the feed cannot be told apart from player traffic.
const (
	botDropMinDelay = 5 * time.Second
	botDropMaxDelay = 8 * time.Second
)

var defaultBotNames = []string{
	"shadow_wolf", "kriper2004", "Maestro", "x_files", "prosto_maks",
	"TULSKIY", "DeadMorozz", "avocado_toast", "rust_never_sleeps",
	"KpoT", "zloy_dobryak", "piroman", "Lastochka", "chetkiy_paren",
}

// BotDropper periodically pushes synthetic drops into a feed.
type BotDropper struct {
	feed    *Feed
	catalog *catalog.Catalog
	names   []string
	rnd     func() float64
}

// NewBotDropper creates a dropper with the default bot roster.
func NewBotDropper(feed *Feed, cat *catalog.Catalog, names []string) *BotDropper {
	if len(names) == 0 {
		names = defaultBotNames
	}
	return &BotDropper{
		feed:    feed,
		catalog: cat,
		names:   names,
		rnd:     rng.Float64,
	}
}

// Delay returns the wait before the next synthetic drop.
func (b *BotDropper) Delay() time.Duration {
	spread := float64(botDropMaxDelay - botDropMinDelay)
	return botDropMinDelay + time.Duration(b.rnd()*spread)
}

// Drop rolls one synthetic event and pushes it.
func (b *BotDropper) Drop(now time.Time) {
	event, ok := b.roll(now)
	if !ok {
		return
	}
	b.feed.Push(event)
}

func (b *BotDropper) roll(now time.Time) (domain.FeedEvent, bool) {
	items := b.catalog.Items()
	if len(items) == 0 {
		return domain.FeedEvent{}, false
	}

	infos := b.catalog.Rarities()
	weights := make([]float64, len(infos))
	for i, info := range infos {
		weights[i] = info.Weight
	}
	idx, err := rng.Pick(weights, b.rnd())
	if err != nil {
		return domain.FeedEvent{}, false
	}

	pool := b.catalog.ItemsByRarity(infos[idx].ID)
	if len(pool) == 0 {
		pool = items
	}
	item := pool[int(b.rnd()*float64(len(pool)))%len(pool)]
	drop := catalog.RollVariant(item, b.rnd())

	return domain.FeedEvent{
		Nickname: b.names[int(b.rnd()*float64(len(b.names)))%len(b.names)],
		ItemName: drop.Name,
		Rarity:   drop.Rarity,
		Price:    drop.Price,
		StatTrak: drop.StatTrak,
		Ts:       now.Unix(),
	}, true
}
