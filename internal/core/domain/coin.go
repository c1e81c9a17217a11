package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a coin's two-state for-sale field: either not listed, or listed
// with a strictly positive price. The zero value means not listed.
type Listing struct {
	ForSale bool            `json:"forSale"`
	Price   decimal.Decimal `json:"price"`
}

// Listed returns a Listing for the given price.
func Listed(price decimal.Decimal) Listing {
	return Listing{ForSale: true, Price: price}
}

// NotListed returns the unlisted state.
func NotListed() Listing {
	return Listing{}
}

// Valid checks the listing invariant: a listed coin must carry a positive price.
func (l Listing) Valid() bool {
	return !l.ForSale || l.Price.IsPositive()
}

// Coin represents one registered planted tree as a digital collectible.
// Everything except OwnerID, Listing and Version is immutable after minting.
type Coin struct {
	CoinID    string `json:"coinID"`    // Primary Key (UUID)
	OwnerID   string `json:"ownerID"`   // Current holder; FK -> accounts
	CreatorID string `json:"creatorID"` // Original minter; immutable

	Species      string          `json:"species"`
	PlantedDate  time.Time       `json:"plantedDate"`
	LocationName string          `json:"locationName"`
	Latitude     *float64        `json:"latitude,omitempty"`  // Nullable
	Longitude    *float64        `json:"longitude,omitempty"` // Nullable
	ImpactKg     decimal.Decimal `json:"impactKg"`            // CO2 offset, non-negative
	Notes        string          `json:"notes"`
	ImageURL     string          `json:"imageURL"`

	// ProvenanceLabel is an opaque display string assigned at mint time.
	// It carries no verification semantics and must not feed any invariant.
	ProvenanceLabel string `json:"provenanceLabel"`

	Listing Listing `json:"listing"`

	// Version is the compare-and-set token guarding ownership and listing
	// transitions. Concurrent purchases of the same coin are serialized by
	// this value: exactly one can win per listing generation.
	Version int64 `json:"-"`

	AuditFields
}

// IsOwnedBy reports whether accountID currently holds the coin.
func (c Coin) IsOwnedBy(accountID string) bool {
	return c.OwnerID == accountID
}
