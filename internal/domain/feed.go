package domain

// FeedEvent is one entry in the live drop feed.
type FeedEvent struct {
	Nickname string `json:"nickname"`
	ItemName string `json:"item"`
	Rarity   Rarity `json:"rarity"`
	Price    int64  `json:"price"`
	StatTrak bool   `json:"stattrak"`
	Ts       int64  `json:"ts"`
}

// LeaderboardRow is one leaderboard position: balance plus the value of
// still-owned inventory.
type LeaderboardRow struct {
	Nickname string `json:"nickname"`
	Total    int64  `json:"total"`
}
