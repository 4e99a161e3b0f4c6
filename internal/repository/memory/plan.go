// Package memory provides mutex-guarded in-memory repositories for local
// development and tests.
package memory

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanRepository stores plans in memory.
type PlanRepository struct {
	mu    sync.RWMutex
	plans map[primitive.ObjectID]domain.WorkoutPlan
}

// NewPlanRepository constructs an empty PlanRepository.
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: make(map[primitive.ObjectID]domain.WorkoutPlan)}
}

var _ repository.PlanRepository = (*PlanRepository)(nil)

// Create implements repository.PlanRepository.
func (r *PlanRepository) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == "" || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Status == "" {
		plan.Status = domain.PlanStatusDraft
	}
	if plan.TargetMuscles == nil {
		plan.TargetMuscles = []string{}
	}
	r.plans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

// GetByID implements repository.PlanRepository.
func (r *PlanRepository) GetByID(_ context.Context, id primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	plan = clonePlan(plan)
	return &plan, nil
}

// ListByOwner implements repository.PlanRepository.
func (r *PlanRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.WorkoutPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.WorkoutPlan{}
	for _, plan := range r.plans {
		if plan.OwnerID == ownerID {
			out = append(out, clonePlan(plan))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// SetStatus implements repository.PlanRepository.
func (r *PlanRepository) SetStatus(_ context.Context, id primitive.ObjectID, ownerID string, status domain.PlanStatus, lastError string) error {
	return r.update(id, ownerID, func(plan *domain.WorkoutPlan) {
		plan.Status = status
		plan.LastError = lastError
	})
}

// SetGenerated implements repository.PlanRepository.
func (r *PlanRepository) SetGenerated(_ context.Context, id primitive.ObjectID, ownerID string, content *domain.PlanContent, transcriptKey string) error {
	if content == nil {
		return errors.New("generated content is required")
	}
	return r.update(id, ownerID, func(plan *domain.WorkoutPlan) {
		plan.Status = domain.PlanStatusReady
		plan.GeneratedContent = clonePlanContent(content)
		plan.LastError = ""
		if transcriptKey != "" {
			plan.LastTranscriptKey = transcriptKey
		}
	})
}

func (r *PlanRepository) update(id primitive.ObjectID, ownerID string, mutate func(*domain.WorkoutPlan)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	mutate(&plan)
	plan.UpdatedAt = time.Now().UTC()
	r.plans[id] = plan
	return nil
}

// Delete implements repository.PlanRepository.
func (r *PlanRepository) Delete(_ context.Context, id primitive.ObjectID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func clonePlan(plan domain.WorkoutPlan) domain.WorkoutPlan {
	plan.TargetMuscles = cloneSlice(plan.TargetMuscles)
	if plan.Frequency != nil {
		v := *plan.Frequency
		plan.Frequency = &v
	}
	if plan.SessionDuration != nil {
		v := *plan.SessionDuration
		plan.SessionDuration = &v
	}
	plan.GeneratedContent = clonePlanContent(plan.GeneratedContent)
	return plan
}

func clonePlanContent(content *domain.PlanContent) *domain.PlanContent {
	if content == nil {
		return nil
	}
	out := *content
	out.Notes = cloneSlice(content.Notes)
	out.Days = cloneSlice(content.Days)
	for i := range out.Days {
		out.Days[i].Focus = cloneSlice(out.Days[i].Focus)
		out.Days[i].Exercises = cloneSlice(out.Days[i].Exercises)
	}
	return &out
}
