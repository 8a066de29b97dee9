package repository

import (
	"context"

	"travel-advisory-service/internal/domain/entity"
)

// AdvisoryRepository defines the interface for advisory storage operations
type AdvisoryRepository interface {
	FindAll(ctx context.Context) ([]*entity.Advisory, error)
	// FindByID returns nil, nil when no advisory has the id
	FindByID(ctx context.Context, id string) (*entity.Advisory, error)
	Save(ctx context.Context, advisory *entity.Advisory) error
	DeleteByID(ctx context.Context, id string) error
}
