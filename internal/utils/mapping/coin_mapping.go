package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	"github.com/verdantlabs/greencoin_backend/internal/models"
)

// ToModelCoin converts a domain Coin to a model Coin
func ToModelCoin(d domain.Coin) models.Coin {
	var salePrice *decimal.Decimal
	if d.Listing.ForSale {
		p := d.Listing.Price
		salePrice = &p
	}
	return models.Coin{
		CoinID:          d.CoinID,
		OwnerID:         d.OwnerID,
		CreatorID:       d.CreatorID,
		Species:         d.Species,
		PlantedDate:     d.PlantedDate,
		LocationName:    d.LocationName,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		ImpactKg:        d.ImpactKg,
		Notes:           d.Notes,
		ImageURL:        d.ImageURL,
		ProvenanceLabel: d.ProvenanceLabel,
		ForSale:         d.Listing.ForSale,
		SalePrice:       salePrice,
		Version:         d.Version,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainCoin converts a model Coin to a domain Coin
func ToDomainCoin(m models.Coin) domain.Coin {
	listing := domain.NotListed()
	if m.ForSale && m.SalePrice != nil {
		listing = domain.Listed(*m.SalePrice)
	}
	return domain.Coin{
		CoinID:          m.CoinID,
		OwnerID:         m.OwnerID,
		CreatorID:       m.CreatorID,
		Species:         m.Species,
		PlantedDate:     m.PlantedDate,
		LocationName:    m.LocationName,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		ImpactKg:        m.ImpactKg,
		Notes:           m.Notes,
		ImageURL:        m.ImageURL,
		ProvenanceLabel: m.ProvenanceLabel,
		Listing:         listing,
		Version:         m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToDomainCoinSlice converts a slice of model Coins to a slice of domain Coins
func ToDomainCoinSlice(ms []models.Coin) []domain.Coin {
	ds := make([]domain.Coin, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCoin(m)
	}
	return ds
}
