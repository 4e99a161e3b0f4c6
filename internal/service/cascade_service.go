package service

import (
	"alcyxob/workout-planner/internal/observability"
	"alcyxob/workout-planner/internal/repository"
	"alcyxob/workout-planner/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CascadeResult reports how many dependent documents a deletion removed.
type CascadeResult struct {
	HistoryDeleted   int64 `json:"historyDeleted"`
	WorkcardsDeleted int64 `json:"workcardsDeleted"`
}

// CascadeService deletes plans and workcards together with everything derived
// from them. Each step is its own write, ordered history -> workcards -> plan
// so an interrupted run only ever leaves orphaned history behind.
type CascadeService interface {
	DeletePlan(ctx context.Context, planID primitive.ObjectID, ownerID string) (*CascadeResult, error)
	DeleteWorkcard(ctx context.Context, cardID primitive.ObjectID, ownerID string) (*CascadeResult, error)
}

// cascadeService implements the CascadeService interface.
type cascadeService struct {
	planRepo     repository.PlanRepository
	workcardRepo repository.WorkcardRepository
	historyRepo  repository.SessionRecordRepository
	transcripts  storage.FileStorage
}

// NewCascadeService creates a new instance of cascadeService.
func NewCascadeService(
	planRepo repository.PlanRepository,
	workcardRepo repository.WorkcardRepository,
	historyRepo repository.SessionRecordRepository,
	transcripts storage.FileStorage,
) CascadeService {
	if transcripts == nil {
		transcripts = storage.NoopStorage{}
	}
	return &cascadeService{
		planRepo:     planRepo,
		workcardRepo: workcardRepo,
		historyRepo:  historyRepo,
		transcripts:  transcripts,
	}
}

// DeletePlan removes a plan, its workcards and their history.
func (s *cascadeService) DeletePlan(ctx context.Context, planID primitive.ObjectID, ownerID string) (*CascadeResult, error) {
	plan, err := s.planRepo.GetByID(ctx, planID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	// 1. Collect workcard ids
	cards, err := s.workcardRepo.ListByPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workcards for plan: %w", err)
	}
	cardIDs := make([]string, 0, len(cards))
	for _, c := range cards {
		cardIDs = append(cardIDs, c.ID.Hex())
	}

	// 2. History tagged with the plan or any of its workcards
	result := &CascadeResult{}
	result.HistoryDeleted, err = s.historyRepo.DeleteForPlan(ctx, ownerID, planID.Hex(), cardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to delete plan history: %w", err)
	}
	observability.RecordCascadeDeleted("session_records", result.HistoryDeleted)

	// 3. Workcards
	result.WorkcardsDeleted, err = s.workcardRepo.DeleteByPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete plan workcards: %w", err)
	}
	observability.RecordCascadeDeleted("workcards", result.WorkcardsDeleted)

	// 4. The plan itself
	if err := s.planRepo.Delete(ctx, planID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to delete plan: %w", err)
	}
	observability.RecordCascadeDeleted("workout_plans", 1)

	if plan.LastTranscriptKey != "" {
		if err := s.transcripts.DeleteObject(ctx, plan.LastTranscriptKey); err != nil {
			log.Printf("WARN: Plan %s deleted but transcript %s was not: %v", planID.Hex(), plan.LastTranscriptKey, err)
		}
	}

	log.Printf("INFO: Deleted plan %s for owner %s (%d workcard(s), %d history record(s))",
		planID.Hex(), ownerID, result.WorkcardsDeleted, result.HistoryDeleted)
	return result, nil
}

// DeleteWorkcard removes one workcard and its history record.
func (s *cascadeService) DeleteWorkcard(ctx context.Context, cardID primitive.ObjectID, ownerID string) (*CascadeResult, error) {
	if _, err := s.workcardRepo.GetByID(ctx, cardID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkcardNotFound
		}
		return nil, err
	}

	deleted, err := s.historyRepo.DeleteByWorkcard(ctx, ownerID, cardID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to delete workcard history: %w", err)
	}
	observability.RecordCascadeDeleted("session_records", deleted)

	if err := s.workcardRepo.Delete(ctx, cardID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkcardNotFound
		}
		return nil, fmt.Errorf("failed to delete workcard: %w", err)
	}
	observability.RecordCascadeDeleted("workcards", 1)

	return &CascadeResult{HistoryDeleted: deleted, WorkcardsDeleted: 1}, nil
}
