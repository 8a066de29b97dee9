package repository

import (
	"context"
	"fmt"
	"time"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationLogRepository implements the NotificationLogRepository interface
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GORM notification outbox and
// migrates its table
func NewGormNotificationLogRepository(db *gorm.DB) (repository.NotificationLogRepository, error) {
	if err := db.AutoMigrate(&NotificationOutbox{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notification outbox: %w", err)
	}
	return &GormNotificationLogRepository{
		db: db,
	}, nil
}

// NotificationOutbox GORM model for database mapping
type NotificationOutbox struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Recipient   string    `gorm:"column:recipient;index"`
	Subject     string    `gorm:"column:subject"`
	Body        string    `gorm:"column:body;type:text"`
	Status      string    `gorm:"column:status;index"`
	ErrorDetail string    `gorm:"column:error_detail"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name
func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}

// Record inserts one notification attempt
func (r *GormNotificationLogRepository) Record(ctx context.Context, record *entity.NotificationRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	model := NotificationOutbox{
		ID:          record.ID,
		Recipient:   record.Recipient,
		Subject:     record.Subject,
		Body:        record.Body,
		Status:      record.Status,
		ErrorDetail: record.ErrorDetail,
		CreatedAt:   record.CreatedAt,
	}

	if result := r.db.WithContext(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("failed to record notification: %w", result.Error)
	}
	return nil
}
