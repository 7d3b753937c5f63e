package domain

// Rarity is the ordered drop tier of a catalog item. Order matters: it is
// the display rank as well as the index into the drop weight table.
type Rarity string

const (
	RarityConsumer      Rarity = "consumer"
	RarityIndustrial    Rarity = "industrial"
	RarityMilspec       Rarity = "milspec"
	RarityRestricted    Rarity = "restricted"
	RarityClassified    Rarity = "classified"
	RarityCovert        Rarity = "covert"
	RarityExtraordinary Rarity = "extraordinary"
)

// RarityRanks lists rarities from most to least common. Drop weights are
// relative, not percentages.
var RarityRanks = []struct {
	ID     Rarity
	Weight float64
}{
	{RarityConsumer, 45},
	{RarityIndustrial, 22},
	{RarityMilspec, 16},
	{RarityRestricted, 8},
	{RarityClassified, 4},
	{RarityCovert, 1.5},
	{RarityExtraordinary, 0.5},
}

// Rank returns the ordinal of a rarity, with unknown rarities sorting last.
func (r Rarity) Rank() int {
	for i, tier := range RarityRanks {
		if tier.ID == r {
			return i
		}
	}
	return len(RarityRanks)
}

// Item is an immutable catalog entry. Instances owned by users are
// InventoryEntry values, not Items.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Price    int64  `json:"price"`
	StatTrak bool   `json:"stattrak"`
	CaseIDs  []string `json:"-"`
}

// Case is a purchasable weighted lottery box yielding one item.
type Case struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

// Drop is the concrete item awarded by a draw. StatTrak promotion may have
// adjusted the price relative to the catalog entry.
type Drop struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Price    int64  `json:"price"`
	StatTrak bool   `json:"stattrak"`
}
