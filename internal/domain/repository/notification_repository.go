package repository

import (
	"context"

	"travel-advisory-service/internal/domain/entity"
)

// NotificationChannel delivers customer messages. Send never fails towards the
// caller: delivery problems are logged and recorded by the implementation.
type NotificationChannel interface {
	Send(ctx context.Context, to, subject, body string)
}

// NotificationLogRepository records every notification attempt
type NotificationLogRepository interface {
	Record(ctx context.Context, record *entity.NotificationRecord) error
}
