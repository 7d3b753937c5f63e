package catalog

import (
	"math"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// StatTrakChance is the probability a non-StatTrak item is promoted to a
// StatTrak variant when dropped.
const StatTrakChance = 0.05

// RollVariant turns a catalog item into a concrete drop using a uniform
// roll in [0, 1). Promoted variants get the StatTrak price markup; items
// that are already StatTrak keep their catalog price.
func RollVariant(item domain.Item, roll float64) domain.Drop {
	drop := domain.Drop{
		ItemID:   item.ID,
		Name:     item.Name,
		Rarity:   item.Rarity,
		Price:    item.Price,
		StatTrak: item.StatTrak,
	}
	if !item.StatTrak && roll < StatTrakChance {
		drop.StatTrak = true
		drop.Price = int64(math.Round(float64(item.Price) * StatTrakMarkup))
	}
	return drop
}
