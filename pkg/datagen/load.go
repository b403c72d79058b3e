package datagen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"exchange-backend/internal/models"
	"exchange-backend/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Load reads a catalog seed file and upserts its bidders and supplies
// into the database. Loading the same file twice is a no-op.
func Load(ctx context.Context, db *mongo.Database, inputPath string) (*Result, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", inputPath, err)
	}

	supplyRepo := repository.NewSupplyRepository(db)
	bidderRepo := repository.NewBidderRepository(db)

	// bidders first so supply references always resolve
	for id, info := range data.Bidders {
		if err := bidderRepo.Upsert(ctx, &models.Bidder{ID: id, Country: info.Country}); err != nil {
			return nil, fmt.Errorf("failed to upsert bidder %s: %w", id, err)
		}
		log.Debugf("Loaded bidder %s (%s)", id, info.Country)
	}

	for id, bidderIDs := range data.Supplies {
		known := make([]string, 0, len(bidderIDs))
		for _, bid := range bidderIDs {
			if _, ok := data.Bidders[bid]; ok {
				known = append(known, bid)
			} else {
				log.Warnf("Supply %s references unknown bidder %s, skipping", id, bid)
			}
		}
		if err := supplyRepo.Upsert(ctx, &models.Supply{ID: id, BidderIDs: known}); err != nil {
			return nil, fmt.Errorf("failed to upsert supply %s: %w", id, err)
		}
		log.Debugf("Loaded supply %s with %d bidders", id, len(known))
	}

	return &Result{
		SuppliesCount: len(data.Supplies),
		BiddersCount:  len(data.Bidders),
	}, nil
}
