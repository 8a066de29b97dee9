package repository

import (
	"context"
	"time"

	"travel-advisory-service/internal/domain/entity"
)

// WorkflowRepository defines the interface for booking workflow storage operations.
// Implementations return copies: mutating a returned workflow does not change the
// stored record until Save is called.
type WorkflowRepository interface {
	FindAll(ctx context.Context) ([]*entity.Workflow, error)
	// FindByID returns nil, nil when no workflow has the id
	FindByID(ctx context.Context, id string) (*entity.Workflow, error)
	Save(ctx context.Context, workflow *entity.Workflow) error
	// FindWithTravelDateAfter returns workflows whose travel date is at or after date.
	// Workflows without a travel date are never returned.
	FindWithTravelDateAfter(ctx context.Context, date time.Time) ([]*entity.Workflow, error)
}
