package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"
)

// MemoryWorkflowRepository keeps workflows in process memory. Records are
// copied on the way in and out.
type MemoryWorkflowRepository struct {
	mu        sync.RWMutex
	workflows map[string]*entity.Workflow
}

// NewMemoryWorkflowRepository creates an empty in-memory workflow store
func NewMemoryWorkflowRepository() repository.WorkflowRepository {
	return &MemoryWorkflowRepository{
		workflows: make(map[string]*entity.Workflow),
	}
}

// FindAll returns copies of every workflow, newest first
func (r *MemoryWorkflowRepository) FindAll(ctx context.Context) ([]*entity.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Workflow, 0, len(r.workflows))
	for _, w := range r.workflows {
		out = append(out, w.Copy())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindByID returns a copy of the workflow or nil
func (r *MemoryWorkflowRepository) FindByID(ctx context.Context, id string) (*entity.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workflows[id]
	if !ok {
		return nil, nil
	}
	return w.Copy(), nil
}

// Save stores a copy of the workflow
func (r *MemoryWorkflowRepository) Save(ctx context.Context, workflow *entity.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workflows[workflow.ID] = workflow.Copy()
	return nil
}

// FindWithTravelDateAfter returns copies of workflows travelling on or after date
func (r *MemoryWorkflowRepository) FindWithTravelDateAfter(ctx context.Context, date time.Time) ([]*entity.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.Workflow{}
	for _, w := range r.workflows {
		if w.TravelDate == nil || w.TravelDate.Before(date) {
			continue
		}
		out = append(out, w.Copy())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TravelDate.Before(*out[j].TravelDate)
	})
	return out, nil
}

// MemoryAdvisoryRepository keeps advisories in process memory
type MemoryAdvisoryRepository struct {
	mu         sync.RWMutex
	advisories map[string]entity.Advisory
}

// NewMemoryAdvisoryRepository creates an empty in-memory advisory store
func NewMemoryAdvisoryRepository() repository.AdvisoryRepository {
	return &MemoryAdvisoryRepository{
		advisories: make(map[string]entity.Advisory),
	}
}

// FindAll returns copies of every advisory in creation order
func (r *MemoryAdvisoryRepository) FindAll(ctx context.Context) ([]*entity.Advisory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Advisory, 0, len(r.advisories))
	for _, a := range r.advisories {
		a := a
		out = append(out, &a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// FindByID returns a copy of the advisory or nil
func (r *MemoryAdvisoryRepository) FindByID(ctx context.Context, id string) (*entity.Advisory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.advisories[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// Save stores a copy of the advisory
func (r *MemoryAdvisoryRepository) Save(ctx context.Context, advisory *entity.Advisory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advisories[advisory.ID] = *advisory
	return nil
}

// DeleteByID removes the advisory if present
func (r *MemoryAdvisoryRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.advisories, id)
	return nil
}
