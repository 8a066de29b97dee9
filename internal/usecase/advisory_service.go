package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/pkg/logger"
)

// AdvisoryService manages advisories. Creating one immediately reconciles the
// future bookings it affects.
type AdvisoryService struct {
	advisoryRepo repository.AdvisoryRepository
	impact       *AdvisoryImpactOrchestrator
	logger       logger.Logger
	now          func() time.Time
}

// NewAdvisoryService creates a new advisory service
func NewAdvisoryService(advisoryRepo repository.AdvisoryRepository, impact *AdvisoryImpactOrchestrator, logger logger.Logger) *AdvisoryService {
	return &AdvisoryService{
		advisoryRepo: advisoryRepo,
		impact:       impact,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns every stored advisory
func (s *AdvisoryService) List(ctx context.Context) ([]*entity.Advisory, error) {
	advisories, err := s.advisoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisories: %w", err)
	}
	return advisories, nil
}

// Create stores the advisory and runs the impact fan-out before returning.
// If the fan-out cannot load bookings the advisory stays saved and the error
// says so; creating it again with the same id only drafts what was missed.
func (s *AdvisoryService) Create(ctx context.Context, advisory *entity.Advisory) (*entity.Advisory, ImpactReport, error) {
	if err := validateAdvisory(advisory); err != nil {
		return nil, ImpactReport{}, err
	}
	if advisory.ID == "" {
		advisory.ID = uuid.New().String()
	}
	if advisory.CreatedAt.IsZero() {
		advisory.CreatedAt = s.now().UTC()
	}

	if err := s.advisoryRepo.Save(ctx, advisory); err != nil {
		return nil, ImpactReport{}, fmt.Errorf("failed to save advisory: %w", err)
	}
	s.logger.Info("Advisory saved",
		"advisoryId", advisory.ID,
		"source", advisory.SourceRegion,
		"target", advisory.TargetRegion,
		"severity", advisory.Severity)

	report, err := s.impact.OnNewAdvisory(ctx, advisory)
	if err != nil {
		return advisory, report, fmt.Errorf("advisory %s saved but impact processing failed: %w", advisory.ID, err)
	}
	return advisory, report, nil
}

// Delete removes an advisory. Drafts and warnings it already produced stay.
func (s *AdvisoryService) Delete(ctx context.Context, id string) error {
	if err := s.advisoryRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete advisory %s: %w", id, err)
	}
	s.logger.Info("Advisory deleted", "advisoryId", id)
	return nil
}

func validateAdvisory(advisory *entity.Advisory) error {
	if advisory == nil {
		return fmt.Errorf("%w: body is required", ErrInvalidAdvisory)
	}
	advisory.SourceRegion = strings.TrimSpace(advisory.SourceRegion)
	advisory.TargetRegion = strings.TrimSpace(advisory.TargetRegion)
	if advisory.SourceRegion == "" || advisory.TargetRegion == "" {
		return fmt.Errorf("%w: source and target regions are required", ErrInvalidAdvisory)
	}
	severity, ok := entity.ParseSeverity(string(advisory.Severity))
	if !ok {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidAdvisory, advisory.Severity)
	}
	advisory.Severity = severity
	return nil
}
