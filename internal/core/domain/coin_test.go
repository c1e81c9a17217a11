package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

func TestListing_Valid(t *testing.T) {
	tests := []struct {
		name    string
		listing domain.Listing
		want    bool
	}{
		{
			name:    "not listed, zero price",
			listing: domain.NotListed(),
			want:    true,
		},
		{
			name:    "listed with positive price",
			listing: domain.Listed(decimal.NewFromInt(40)),
			want:    true,
		},
		{
			name:    "listed with zero price",
			listing: domain.Listing{ForSale: true, Price: decimal.Zero},
			want:    false,
		},
		{
			name:    "listed with negative price",
			listing: domain.Listing{ForSale: true, Price: decimal.NewFromInt(-5)},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.Valid())
		})
	}
}

func TestAccount_CanAfford(t *testing.T) {
	acc := domain.Account{Balance: decimal.NewFromInt(100)}

	assert.True(t, acc.CanAfford(decimal.NewFromInt(100)))
	assert.True(t, acc.CanAfford(decimal.NewFromInt(40)))
	assert.False(t, acc.CanAfford(decimal.NewFromInt(101)))
}

func TestParseLeaderboardSortKey(t *testing.T) {
	for _, valid := range []string{"trees_planted", "coin_count", "total_impact"} {
		key, ok := domain.ParseLeaderboardSortKey(valid)
		assert.True(t, ok)
		assert.Equal(t, domain.LeaderboardSortKey(valid), key)
	}

	_, ok := domain.ParseLeaderboardSortKey("balance")
	assert.False(t, ok)
}
