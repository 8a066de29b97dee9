package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWorkflowRepository implements the WorkflowRepository interface
type MongoWorkflowRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkflowRepository creates a new MongoDB workflow repository
func NewMongoWorkflowRepository(db *mongo.Database) repository.WorkflowRepository {
	collection := db.Collection("workflows")

	ctx := context.Background()

	// Future-booking scans filter and sort on travel date
	travelDateIndex := mongo.IndexModel{
		Keys: bson.M{"travelDate": 1},
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		travelDateIndex,
		createdAtIndex,
	})

	return &MongoWorkflowRepository{
		collection: collection,
	}
}

// FindAll returns every workflow, newest first
func (r *MongoWorkflowRepository) FindAll(ctx context.Context) ([]*entity.Workflow, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find workflows: %w", err)
	}
	defer cursor.Close(ctx)

	workflows := []*entity.Workflow{}
	if err := cursor.All(ctx, &workflows); err != nil {
		return nil, fmt.Errorf("failed to decode workflows: %w", err)
	}
	return workflows, nil
}

// FindByID finds a workflow by ID
func (r *MongoWorkflowRepository) FindByID(ctx context.Context, id string) (*entity.Workflow, error) {
	var workflow entity.Workflow
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workflow)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workflow %s: %w", id, err)
	}
	return &workflow, nil
}

// Save upserts the workflow by ID
func (r *MongoWorkflowRepository) Save(ctx context.Context, workflow *entity.Workflow) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": workflow.ID},
		workflow,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}
	return nil
}

// FindWithTravelDateAfter finds workflows travelling on or after date
func (r *MongoWorkflowRepository) FindWithTravelDateAfter(ctx context.Context, date time.Time) ([]*entity.Workflow, error) {
	filter := bson.M{
		"travelDate": bson.M{"$gte": date},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "travelDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find future workflows: %w", err)
	}
	defer cursor.Close(ctx)

	workflows := []*entity.Workflow{}
	if err := cursor.All(ctx, &workflows); err != nil {
		return nil, fmt.Errorf("failed to decode future workflows: %w", err)
	}
	return workflows, nil
}
