package repository

import (
	"context"
	"time"

	"exchange-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SupplyRepository struct {
	collection *mongo.Collection
}

func NewSupplyRepository(db *mongo.Database) *SupplyRepository {
	return &SupplyRepository{
		collection: db.Collection("supplies"),
	}
}

// Exists reports whether a supply is registered in the catalog.
func (r *SupplyRepository) Exists(ctx context.Context, supplyID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": supplyID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID returns a supply with its registered bidder list, or nil when
// the supply is unknown.
func (r *SupplyRepository) FindByID(ctx context.Context, supplyID string) (*models.Supply, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var supply models.Supply
	err := r.collection.FindOne(ctx, bson.M{"_id": supplyID}).Decode(&supply)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &supply, nil
}

// FindAll lists every supply in the catalog.
func (r *SupplyRepository) FindAll(ctx context.Context) ([]*models.Supply, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var supplies []*models.Supply
	for cursor.Next(ctx) {
		var supply models.Supply
		if err := cursor.Decode(&supply); err != nil {
			return nil, err
		}
		supplies = append(supplies, &supply)
	}
	return supplies, cursor.Err()
}

// Upsert inserts or replaces a supply document. Used by the data loader.
func (r *SupplyRepository) Upsert(ctx context.Context, supply *models.Supply) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": supply.ID},
		supply,
		options.Replace().SetUpsert(true))
	return err
}
