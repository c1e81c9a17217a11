package dto

import (
	"github.com/shopspring/decimal"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// LeaderboardEntryResponse is one ranked row.
type LeaderboardEntryResponse struct {
	Rank         int             `json:"rank"`
	AccountID    string          `json:"accountID"`
	DisplayName  string          `json:"displayName"`
	TreesPlanted int64           `json:"treesPlanted"`
	CoinCount    int64           `json:"coinCount"`
	TotalImpact  decimal.Decimal `json:"totalImpact"`
}

// LeaderboardResponse wraps the ranked entries plus the key they are sorted by.
type LeaderboardResponse struct {
	SortedBy string                     `json:"sortedBy"`
	Entries  []LeaderboardEntryResponse `json:"entries"`
}

// ToLeaderboardResponse converts ranked domain entries to the response DTO.
// The input order is preserved; ranks are assigned 1-based.
func ToLeaderboardResponse(sortKey domain.LeaderboardSortKey, entries []domain.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntryResponse{
			Rank:         i + 1,
			AccountID:    e.AccountID,
			DisplayName:  e.DisplayName,
			TreesPlanted: e.TreesPlanted,
			CoinCount:    e.CoinCount,
			TotalImpact:  e.TotalImpact,
		}
	}
	return LeaderboardResponse{SortedBy: string(sortKey), Entries: out}
}
