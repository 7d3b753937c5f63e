// Package catalog holds the static weighted item catalog: every case, its
// drop table, and the rarity tiers. The catalog is loaded once at startup
// and is immutable afterwards, so drop tables cannot change mid-draw.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// categoryByCase maps known case names onto storefront categories.
// Unlisted cases land in CategoryOther.
var categoryByCase = map[string]string{
	"Revolution":         "Prime",
	"Kilowatt":           "Prime",
	"Dreams & Nightmares": "Prime",
	"Recoil":             "Prime",
	"Snakebite":          "Prime",
	"Fracture":           "Prime",
	"Clutch":             "Prime",
	"Prisma 2":           "Prime",
	"Prisma":             "Prime",
	"Spectrum 2":         "Prime",
	"Spectrum":           "Prime",
	"Horizon":            "Prime",
	"Danger Zone":        "Prime",
	"Chroma 3":           "Neon",
	"Chroma 2":           "Neon",
	"Chroma":             "Neon",
	"Gamma 2":            "Neon",
	"Gamma":              "Neon",
	"Shadow":             "Operations",
	"Falchion":           "Operations",
	"Glove":              "Operations",
	"Wildfire":           "Operations",
	"Phoenix":            "Operations",
	"Vanguard":           "Operations",
	"Breakout":           "Operations",
	"Bravo":              "Operations",
	"Operation Riptide":  "Operations",
	"Hydra":              "Operations",
	"Esports 2013":       "Esports",
	"Weapon Case":        "Classic",
	"Weapon Case 2":      "Classic",
	"Weapon Case 3":      "Classic",
	"Winter Offensive":   "Classic",
	"Huntsman":           "Classic",
	"Cobblestone":        "Collections",
	"Cache":              "Collections",
	"Dust 2":             "Collections",
	"Mirage":             "Collections",
	"Inferno":            "Collections",
	"Nuke":               "Collections",
	"Overpass":           "Collections",
	"Anubis":             "Collections",
	"Ancient":            "Collections",
	"Train":              "Collections",
}

// CategoryOther is the bucket for cases without a category mapping.
const CategoryOther = "Other"

// RarityInfo is the display metadata for a rarity tier.
type RarityInfo struct {
	ID     domain.Rarity `json:"id"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Weight float64       `json:"weight"`
}

var rarityInfos = []RarityInfo{
	{domain.RarityConsumer, "Consumer", "#94a3b8", 45},
	{domain.RarityIndustrial, "Industrial", "#0f766e", 22},
	{domain.RarityMilspec, "Mil-Spec", "#2563eb", 16},
	{domain.RarityRestricted, "Restricted", "#f59e0b", 8},
	{domain.RarityClassified, "Classified", "#f97316", 4},
	{domain.RarityCovert, "Covert", "#ef4444", 1.5},
	{domain.RarityExtraordinary, "Extraordinary", "#facc15", 0.5},
}

// Catalog is the immutable case/item configuration.
type Catalog struct {
	cases       []domain.Case
	casesByID   map[string]domain.Case
	items       []domain.Item
	itemsByID   map[string]domain.Item
	itemsByCase map[string][]domain.Item
	categories  []string
}

// Load reads the catalog file and builds the lookup tables.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	caseDefs, weaponDefs, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return build(caseDefs, weaponDefs), nil
}

func build(caseDefs []caseDef, weaponDefs []weaponDef) *Catalog {
	c := &Catalog{
		casesByID:   make(map[string]domain.Case),
		itemsByID:   make(map[string]domain.Item),
		itemsByCase: make(map[string][]domain.Item),
	}

	caseIDByKey := make(map[string]string, len(caseDefs))
	categorySet := make(map[string]bool)
	for _, def := range caseDefs {
		category, ok := categoryByCase[def.Name]
		if !ok {
			category = CategoryOther
		}
		cs := domain.Case{
			ID:       Slugify(def.Name),
			Name:     def.Name,
			Category: category,
			Price:    def.Price,
		}
		c.cases = append(c.cases, cs)
		c.casesByID[cs.ID] = cs
		caseIDByKey[normalizeKey(def.Name)] = cs.ID
		categorySet[category] = true
	}

	for idx, def := range weaponDefs {
		item := domain.Item{
			// Index suffix keeps duplicate skins distinct across cases.
			ID:       fmt.Sprintf("%s-%s-%d-%d-%d", Slugify(def.Name), def.Rarity, def.Price, boolToInt(def.StatTrak), idx),
			Name:     def.Name,
			Rarity:   def.Rarity,
			Price:    def.Price,
			StatTrak: def.StatTrak,
		}
		for _, caseName := range def.Cases {
			if caseID, ok := caseIDByKey[normalizeKey(caseName)]; ok {
				item.CaseIDs = append(item.CaseIDs, caseID)
				c.itemsByCase[caseID] = append(c.itemsByCase[caseID], item)
			}
		}
		c.items = append(c.items, item)
		c.itemsByID[item.ID] = item
	}

	for caseID := range c.itemsByCase {
		items := c.itemsByCase[caseID]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rarity.Rank() < items[j].Rarity.Rank()
		})
	}

	for category := range categorySet {
		c.categories = append(c.categories, category)
	}
	sort.Strings(c.categories)

	return c
}

// Cases returns every case in file order.
func (c *Catalog) Cases() []domain.Case { return c.cases }

// CaseByID looks up a case; ok is false for unknown ids.
func (c *Catalog) CaseByID(id string) (domain.Case, bool) {
	cs, ok := c.casesByID[id]
	return cs, ok
}

// ItemsByCase returns a case's drop pool sorted by rarity rank.
func (c *Catalog) ItemsByCase(caseID string) []domain.Item {
	return c.itemsByCase[caseID]
}

// ItemByID looks up a catalog item; ok is false for unknown ids.
func (c *Catalog) ItemByID(id string) (domain.Item, bool) {
	item, ok := c.itemsByID[id]
	return item, ok
}

// Items returns the full catalog.
func (c *Catalog) Items() []domain.Item { return c.items }

// ItemsByRarity returns all items in the given tiers.
func (c *Catalog) ItemsByRarity(rarities ...domain.Rarity) []domain.Item {
	want := make(map[domain.Rarity]bool, len(rarities))
	for _, r := range rarities {
		want[r] = true
	}
	var out []domain.Item
	for _, item := range c.items {
		if want[item.Rarity] {
			out = append(out, item)
		}
	}
	return out
}

// Categories returns the sorted storefront categories.
func (c *Catalog) Categories() []string { return c.categories }

// Rarities returns the display metadata for all tiers, most common first.
func (c *Catalog) Rarities() []RarityInfo { return rarityInfos }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
