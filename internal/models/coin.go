package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coin represents a collectible row in the coins table.
// SalePrice is nullable; it only carries a value while the coin is listed.
type Coin struct {
	CoinID          string           `db:"coin_id"`
	OwnerID         string           `db:"owner_id"`
	CreatorID       string           `db:"creator_id"`
	Species         string           `db:"species"`
	PlantedDate     time.Time        `db:"planted_date"`
	LocationName    string           `db:"location_name"`
	Latitude        *float64         `db:"latitude"`
	Longitude       *float64         `db:"longitude"`
	ImpactKg        decimal.Decimal  `db:"impact_kg"`
	Notes           string           `db:"notes"`
	ImageURL        string           `db:"image_url"`
	ProvenanceLabel string           `db:"provenance_label"`
	ForSale         bool             `db:"for_sale"`
	SalePrice       *decimal.Decimal `db:"sale_price"`
	Version         int64            `db:"version"`
	AuditFields
}
