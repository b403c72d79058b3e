package services

import (
	"context"

	"exchange-backend/internal/models"
	"exchange-backend/internal/repository"
)

// Catalog adapts the Mongo repositories to the auction engine's
// SupplyCatalog port.
type Catalog struct {
	supplies *repository.SupplyRepository
	bidders  *repository.BidderRepository
}

func NewCatalog(supplies *repository.SupplyRepository, bidders *repository.BidderRepository) *Catalog {
	return &Catalog{
		supplies: supplies,
		bidders:  bidders,
	}
}

func (c *Catalog) SupplyExists(ctx context.Context, supplyID string) (bool, error) {
	return c.supplies.Exists(ctx, supplyID)
}

// EligibleBidders returns the supply's registered bidders whose country
// matches, preserving the supply's registration order.
func (c *Catalog) EligibleBidders(ctx context.Context, supplyID, country string) ([]models.Bidder, error) {
	supply, err := c.supplies.FindByID(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	if supply == nil {
		return nil, nil
	}
	return c.bidders.FindEligible(ctx, supply.BidderIDs, country)
}
