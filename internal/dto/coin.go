package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// MintCoinRequest defines the data needed to mint a new coin.
type MintCoinRequest struct {
	Species      string          `json:"species" binding:"required"`
	PlantedDate  time.Time       `json:"plantedDate" binding:"required"`
	LocationName string          `json:"locationName"`
	Latitude     *float64        `json:"latitude"`  // Optional, use pointer for nullability
	Longitude    *float64        `json:"longitude"` // Optional
	ImpactKg     decimal.Decimal `json:"impactKg"`
	Notes        string          `json:"notes"`
	ImageURL     string          `json:"imageURL"`
}

// ListCoinRequest sets or replaces a coin's sale price.
type ListCoinRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// CoinResponse defines the data returned for a coin.
type CoinResponse struct {
	CoinID          string          `json:"coinID"`
	OwnerID         string          `json:"ownerID"`
	CreatorID       string          `json:"creatorID"`
	Species         string          `json:"species"`
	PlantedDate     time.Time       `json:"plantedDate"`
	LocationName    string          `json:"locationName"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	ImpactKg        decimal.Decimal `json:"impactKg"`
	Notes           string          `json:"notes"`
	ImageURL        string          `json:"imageURL"`
	ProvenanceLabel string          `json:"provenanceLabel"`
	ForSale         bool            `json:"forSale"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// MarketplaceParams defines query parameters for browsing listed coins.
type MarketplaceParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// MarketplaceResponse wraps a page of listed coins.
type MarketplaceResponse struct {
	Coins     []CoinResponse `json:"coins"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ListCoinsResponse wraps a non-paginated coin collection (e.g. owned coins).
type ListCoinsResponse struct {
	Coins []CoinResponse `json:"coins"`
}

// ToCoinResponse converts a domain.Coin to CoinResponse DTO.
func ToCoinResponse(coin *domain.Coin) CoinResponse {
	return CoinResponse{
		CoinID:          coin.CoinID,
		OwnerID:         coin.OwnerID,
		CreatorID:       coin.CreatorID,
		Species:         coin.Species,
		PlantedDate:     coin.PlantedDate,
		LocationName:    coin.LocationName,
		Latitude:        coin.Latitude,
		Longitude:       coin.Longitude,
		ImpactKg:        coin.ImpactKg,
		Notes:           coin.Notes,
		ImageURL:        coin.ImageURL,
		ProvenanceLabel: coin.ProvenanceLabel,
		ForSale:         coin.Listing.ForSale,
		SalePrice:       coin.Listing.Price,
		CreatedAt:       coin.CreatedAt,
	}
}

// ToListCoinsResponse converts a slice of domain.Coin to the list DTO.
func ToListCoinsResponse(coins []domain.Coin) ListCoinsResponse {
	out := make([]CoinResponse, len(coins))
	for i := range coins {
		out[i] = ToCoinResponse(&coins[i])
	}
	return ListCoinsResponse{Coins: out}
}
