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

// WorkflowService manages booking workflows and keeps their advisory
// annotations current.
type WorkflowService struct {
	workflowRepo repository.WorkflowRepository
	advisoryRepo repository.AdvisoryRepository
	analyzer     *ViolationAnalyzer
	parser       *ItineraryParser
	logger       logger.Logger
	now          func() time.Time
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	workflowRepo repository.WorkflowRepository,
	advisoryRepo repository.AdvisoryRepository,
	analyzer *ViolationAnalyzer,
	parser *ItineraryParser,
	logger logger.Logger,
) *WorkflowService {
	return &WorkflowService{
		workflowRepo: workflowRepo,
		advisoryRepo: advisoryRepo,
		analyzer:     analyzer,
		parser:       parser,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns every workflow
func (s *WorkflowService) List(ctx context.Context) ([]*entity.Workflow, error) {
	workflows, err := s.workflowRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, nil
}

// Create validates a new workflow, checks it against the active advisories and
// stores it. A workflow without steps gets the standard three.
func (s *WorkflowService) Create(ctx context.Context, workflow *entity.Workflow) (*entity.Workflow, error) {
	if workflow == nil {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidWorkflow)
	}
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}
	if len(workflow.Steps) == 0 {
		workflow.Steps = []entity.Step{
			entity.NewStep("1", "Flight Selection", "Select flight"),
			entity.NewStep("2", "Hotel Booking", "Select hotel"),
			entity.NewStep("3", "Payment", "Complete payment"),
		}
	}
	if err := normalizeSteps(workflow.Steps); err != nil {
		return nil, err
	}
	normalizeTravelDate(workflow)

	now := s.now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	s.analyze(ctx, workflow)
	if err := s.workflowRepo.Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.logger.Info("Workflow created", "workflowId", workflow.ID, "steps", len(workflow.Steps))
	return workflow, nil
}

// Parse builds a workflow from a plain-text trip request
func (s *WorkflowService) Parse(ctx context.Context, text string) (*entity.Workflow, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: request text is required", ErrInvalidWorkflow)
	}

	itinerary := s.parser.Parse(ctx, text)
	now := s.now().UTC()
	workflow := &entity.Workflow{
		ID:            uuid.New().String(),
		CustomerName:  itinerary.Title,
		CustomerEmail: itinerary.CustomerEmail,
		Origin:        itinerary.Origin,
		Destination:   itinerary.Destination,
		TravelDate:    itinerary.TravelDate,
		Finished:      false,
		Steps:         itinerary.Steps,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.analyze(ctx, workflow)
	if err := s.workflowRepo.Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save parsed workflow: %w", err)
	}

	s.logger.Info("Workflow parsed from request", "workflowId", workflow.ID, "steps", len(workflow.Steps))
	return workflow, nil
}

// Get returns the workflow, re-analyzed against current advisories when it is
// still open. It is stored again only if the analysis changed something.
func (s *WorkflowService) Get(ctx context.Context, id string) (*entity.Workflow, error) {
	workflow, err := s.workflowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}
	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}
	if workflow.Finished {
		return workflow, nil
	}

	if s.analyze(ctx, workflow) {
		workflow.UpdatedAt = s.now().UTC()
		if err := s.workflowRepo.Save(ctx, workflow); err != nil {
			return nil, fmt.Errorf("failed to save analyzed workflow %s: %w", id, err)
		}
	}
	return workflow, nil
}

// Update replaces a stored workflow. The id from the path wins over the body.
func (s *WorkflowService) Update(ctx context.Context, id string, workflow *entity.Workflow) (*entity.Workflow, error) {
	if workflow == nil {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidWorkflow)
	}
	existing, err := s.workflowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}
	if existing == nil {
		return nil, ErrWorkflowNotFound
	}
	if err := normalizeSteps(workflow.Steps); err != nil {
		return nil, err
	}
	normalizeTravelDate(workflow)

	workflow.ID = id
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = s.now().UTC()
	if err := s.workflowRepo.Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow %s: %w", id, err)
	}
	return workflow, nil
}

// CompleteStep marks one step of a workflow as completed
func (s *WorkflowService) CompleteStep(ctx context.Context, id, stepID string) (*entity.Workflow, error) {
	workflow, err := s.workflowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}
	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	step := workflow.StepByID(stepID)
	if step == nil {
		return nil, ErrStepNotFound
	}
	step.Complete()
	workflow.UpdatedAt = s.now().UTC()

	if err := s.workflowRepo.Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow %s: %w", id, err)
	}
	s.logger.Info("Workflow step completed", "workflowId", id, "stepId", stepID)
	return workflow, nil
}

// analyze runs the violation analyzer against all advisories. Failing to read
// the advisories leaves the workflow as it was.
func (s *WorkflowService) analyze(ctx context.Context, workflow *entity.Workflow) bool {
	advisories, err := s.advisoryRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load advisories for analysis", "workflowId", workflow.ID, "error", err)
		return false
	}
	return s.analyzer.Analyze(ctx, workflow, advisories)
}

// normalizeTravelDate keeps only the calendar date, at midnight UTC
func normalizeTravelDate(workflow *entity.Workflow) {
	if workflow.TravelDate != nil {
		date := entity.DateOf(*workflow.TravelDate)
		workflow.TravelDate = &date
	}
}

// normalizeSteps fills in missing ids, statuses and metadata, and rejects
// duplicate ids or a completed flag on a non-terminal step.
func normalizeSteps(steps []entity.Step) error {
	seen := make(map[string]struct{}, len(steps))
	for i := range steps {
		step := &steps[i]
		if step.ID == "" {
			step.ID = newStepID()
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("%w: duplicate step id %q", ErrInvalidWorkflow, step.ID)
		}
		seen[step.ID] = struct{}{}

		switch step.Status {
		case "":
			step.Status = entity.StepPending
		case entity.StepPending, entity.StepInProgress, entity.StepCompleted, entity.StepSkipped:
		default:
			return fmt.Errorf("%w: step %q has unknown status %q", ErrInvalidWorkflow, step.ID, step.Status)
		}
		if !step.Consistent() {
			return fmt.Errorf("%w: step %q is completed but %s", ErrInvalidWorkflow, step.ID, step.Status)
		}
		if step.Metadata == nil {
			step.Metadata = make(map[string]interface{})
		}
	}
	return nil
}
