package domain

import "github.com/shopspring/decimal"

// LeaderboardSortKey selects the metric a leaderboard is ordered by.
type LeaderboardSortKey string

const (
	SortByTreesPlanted LeaderboardSortKey = "trees_planted"
	SortByCoinCount    LeaderboardSortKey = "coin_count"
	SortByTotalImpact  LeaderboardSortKey = "total_impact"
)

// ParseLeaderboardSortKey validates a raw sort key string.
func ParseLeaderboardSortKey(raw string) (LeaderboardSortKey, bool) {
	switch LeaderboardSortKey(raw) {
	case SortByTreesPlanted, SortByCoinCount, SortByTotalImpact:
		return LeaderboardSortKey(raw), true
	}
	return "", false
}

// LeaderboardEntry is a derived, read-only projection of one account's
// standing. CoinCount and TotalImpact are computed from current coin
// ownership at query time, never stored, so they cannot drift from the
// coin population.
type LeaderboardEntry struct {
	AccountID    string          `json:"accountID"`
	DisplayName  string          `json:"displayName"`
	TreesPlanted int64           `json:"treesPlanted"`
	CoinCount    int64           `json:"coinCount"`
	TotalImpact  decimal.Decimal `json:"totalImpact"`
}
