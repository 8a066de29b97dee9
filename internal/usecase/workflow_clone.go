package usecase

import (
	"github.com/google/uuid"

	"travel-advisory-service/internal/domain/entity"
)

// CloneForReview copies a booking into an independent draft. The draft and every
// step get fresh ids, progress is reset, and advisory annotations are dropped so a
// later analysis can derive them again.
func CloneForReview(original *entity.Workflow) *entity.Workflow {
	draft := &entity.Workflow{
		ID:            uuid.New().String(),
		AgentID:       original.AgentID,
		CustomerName:  original.CustomerName,
		CustomerEmail: original.CustomerEmail,
		Origin:        original.Origin,
		Destination:   original.Destination,
		Finished:      false,
		Steps:         make([]entity.Step, 0, len(original.Steps)+1),
	}
	if original.TravelDate != nil {
		d := *original.TravelDate
		draft.TravelDate = &d
	}

	for _, step := range original.Steps {
		metadata := make(map[string]interface{}, len(step.Metadata))
		for k, v := range step.Metadata {
			metadata[k] = v
		}
		draft.Steps = append(draft.Steps, entity.Step{
			ID:          uuid.New().String(),
			Name:        step.Name,
			Description: step.Description,
			Status:      entity.StepPending,
			Completed:   false,
			Metadata:    metadata,
		})
	}

	return draft
}
