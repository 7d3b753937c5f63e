package domain

import "time"

// Stats tracks per-user lifetime counters. BestDropID/BestUpgradeID point
// at inventory entries, not catalog items.
type Stats struct {
	CasesOpened   int    `json:"cases_opened"`
	CasesWon      int    `json:"cases_won"`
	DailyCases    int    `json:"daily_cases"`
	Upgrades      int    `json:"upgrades"`
	UpgradeWins   int    `json:"upgrade_wins"`
	MaxBalance    int64  `json:"max_balance"`
	BestDropID    string `json:"-"`
	BestUpgradeID string `json:"-"`
}

// User is a registered player. Balance is in integer currency units and is
// never negative after any engine operation.
type User struct {
	ID         string    `json:"-"`
	Nickname   string    `json:"nickname"`
	Token      string    `json:"-"`
	Balance    int64     `json:"balance"`
	LastClaim  time.Time `json:"last_claim"`
	DailyReset int       `json:"-"` // UTC day key (YYYYMMDD) of the last daily counter reset
	Stats      Stats     `json:"stats"`
	CreatedAt  time.Time `json:"-"`
}

// Snapshot is the user view returned by engine operations: the user plus
// the resolved inventory and best items.
type Snapshot struct {
	Nickname    string           `json:"nickname"`
	Balance     int64            `json:"balance"`
	LastClaim   int64            `json:"last_claim"`
	Stats       SnapshotStats    `json:"stats"`
	Inventory   []InventoryEntry `json:"inventory"`
}

// SnapshotStats mirrors Stats with best items resolved to entries.
type SnapshotStats struct {
	CasesOpened int             `json:"cases_opened"`
	CasesWon    int             `json:"cases_won"`
	DailyCases  int             `json:"daily_cases"`
	Upgrades    int             `json:"upgrades"`
	UpgradeWins int             `json:"upgrade_wins"`
	MaxBalance  int64           `json:"max_balance"`
	BestDrop    *InventoryEntry `json:"best_drop"`
	BestUpgrade *InventoryEntry `json:"best_upgrade"`
}
