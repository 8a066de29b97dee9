package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"
)

// MockWorkflowRepository satisfies repository.WorkflowRepository
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindAll(ctx context.Context) ([]*entity.Workflow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) FindByID(ctx context.Context, id string) (*entity.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) Save(ctx context.Context, workflow *entity.Workflow) error {
	args := m.Called(ctx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) FindWithTravelDateAfter(ctx context.Context, date time.Time) ([]*entity.Workflow, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Workflow), args.Error(1)
}

// MockAdvisoryRepository satisfies repository.AdvisoryRepository
type MockAdvisoryRepository struct {
	mock.Mock
}

func (m *MockAdvisoryRepository) FindAll(ctx context.Context) ([]*entity.Advisory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) FindByID(ctx context.Context, id string) (*entity.Advisory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) Save(ctx context.Context, advisory *entity.Advisory) error {
	args := m.Called(ctx, advisory)
	return args.Error(0)
}

func (m *MockAdvisoryRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGateway satisfies repository.LLMGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Reason(ctx context.Context, prompt string) (string, bool) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Bool(1)
}

// MockNotifier satisfies repository.NotificationChannel
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) {
	m.Called(ctx, to, subject, body)
}

func promptContaining(fragment string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, fragment)
	})
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

func newTestLogger() logger.Logger {
	return logger.NewNop()
}

func travelDate(days int) *time.Time {
	d := entity.DateOf(time.Now().UTC()).AddDate(0, 0, days)
	return &d
}
