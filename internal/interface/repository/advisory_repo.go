package repository

import (
	"context"
	"errors"
	"fmt"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAdvisoryRepository implements the AdvisoryRepository interface
type MongoAdvisoryRepository struct {
	collection *mongo.Collection
}

// NewMongoAdvisoryRepository creates a new MongoDB advisory repository
func NewMongoAdvisoryRepository(db *mongo.Database) repository.AdvisoryRepository {
	collection := db.Collection("advisories")

	collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "sourceRegion", Value: 1},
			{Key: "targetRegion", Value: 1},
		},
	})

	return &MongoAdvisoryRepository{
		collection: collection,
	}
}

// FindAll returns every advisory in creation order
func (r *MongoAdvisoryRepository) FindAll(ctx context.Context) ([]*entity.Advisory, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find advisories: %w", err)
	}
	defer cursor.Close(ctx)

	advisories := []*entity.Advisory{}
	if err := cursor.All(ctx, &advisories); err != nil {
		return nil, fmt.Errorf("failed to decode advisories: %w", err)
	}
	return advisories, nil
}

// FindByID finds an advisory by ID
func (r *MongoAdvisoryRepository) FindByID(ctx context.Context, id string) (*entity.Advisory, error) {
	var advisory entity.Advisory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&advisory)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find advisory %s: %w", id, err)
	}
	return &advisory, nil
}

// Save upserts the advisory by ID
func (r *MongoAdvisoryRepository) Save(ctx context.Context, advisory *entity.Advisory) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": advisory.ID},
		advisory,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save advisory %s: %w", advisory.ID, err)
	}
	return nil
}

// DeleteByID removes an advisory. Deleting a missing id is not an error.
func (r *MongoAdvisoryRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete advisory %s: %w", id, err)
	}
	return nil
}
