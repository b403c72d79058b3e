package repository

import (
	"context"
	"time"

	"exchange-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BidderRepository struct {
	collection *mongo.Collection
}

func NewBidderRepository(db *mongo.Database) *BidderRepository {
	return &BidderRepository{
		collection: db.Collection("bidders"),
	}
}

// FindEligible returns the bidders among ids whose registered country
// matches. The result preserves the order of ids, which is the auction's
// enumeration order.
func (r *BidderRepository) FindEligible(ctx context.Context, ids []string, country string) ([]models.Bidder, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{
		"_id":     bson.M{"$in": ids},
		"country": country,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	byID := make(map[string]models.Bidder, len(ids))
	for cursor.Next(ctx) {
		var bidder models.Bidder
		if err := cursor.Decode(&bidder); err != nil {
			return nil, err
		}
		byID[bidder.ID] = bidder
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	eligible := make([]models.Bidder, 0, len(byID))
	for _, id := range ids {
		if bidder, ok := byID[id]; ok {
			eligible = append(eligible, bidder)
		}
	}
	return eligible, nil
}

// Upsert inserts or replaces a bidder document. Used by the data loader.
func (r *BidderRepository) Upsert(ctx context.Context, bidder *models.Bidder) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": bidder.ID},
		bidder,
		options.Replace().SetUpsert(true))
	return err
}
