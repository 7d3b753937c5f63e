package domain

import "time"

// EntryStatus is the lifecycle state of an owned item instance.
// Transitions happen exactly once: owned -> sold | upgraded | failed.
// An entry is never resurrected.
type EntryStatus string

const (
	StatusOwned    EntryStatus = "owned"
	StatusSold     EntryStatus = "sold"
	StatusUpgraded EntryStatus = "upgraded"
	StatusFailed   EntryStatus = "failed"
)

// EntrySource records how an inventory entry was acquired.
type EntrySource string

const (
	SourceCase     EntrySource = "case"
	SourceUpgrade  EntrySource = "upgrade"
	SourceGiveaway EntrySource = "giveaway"
)

// InventoryEntry is a single owned instance of a catalog item. Item fields
// are denormalized at grant time because StatTrak promotion can alter the
// price relative to the catalog.
type InventoryEntry struct {
	ID         string      `json:"id"`
	UserID     string      `json:"-"`
	ItemID     string      `json:"item_id"`
	Name       string      `json:"name"`
	Rarity     Rarity      `json:"rarity"`
	Price      int64       `json:"price"`
	StatTrak   bool        `json:"stattrak"`
	Status     EntryStatus `json:"status"`
	Source     EntrySource `json:"source"`
	CaseID     string      `json:"-"`
	AcquiredAt time.Time   `json:"acquired_at"`
}
