package service

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/observability"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpandResult is the batch of workcards belonging to one plan.
type ExpandResult struct {
	Workcards []domain.Workcard
	Reused    bool // True when the batch already existed and nothing was created
}

// ProgressUpdate carries optional checklist changes. Nil fields are left as stored.
type ProgressUpdate struct {
	Date    *string
	Weekday *string
	Checked []bool
}

// SubmitResult is the outcome of a submit call.
type SubmitResult struct {
	Workcard         *domain.Workcard
	AlreadySubmitted bool
	Record           *domain.SessionRecord // Nil on replay
}

// WorkcardListFilter narrows ListWorkcards. Unknown status values are ignored.
type WorkcardListFilter struct {
	Status string
	PlanID primitive.ObjectID
}

// WorkcardService expands plans into workcards and drives each workcard
// from pending to submitted.
type WorkcardService interface {
	ExpandPlan(ctx context.Context, planID primitive.ObjectID, ownerID string) (*ExpandResult, error)
	ListWorkcards(ctx context.Context, ownerID string, filter WorkcardListFilter) ([]domain.Workcard, error)
	GetWorkcard(ctx context.Context, cardID primitive.ObjectID, ownerID string) (*domain.Workcard, error)
	UpdateProgress(ctx context.Context, cardID primitive.ObjectID, ownerID string, update ProgressUpdate) (*domain.Workcard, error)
	Submit(ctx context.Context, cardID primitive.ObjectID, ownerID string) (*SubmitResult, error)
}

// workcardService implements the WorkcardService interface.
type workcardService struct {
	planRepo     repository.PlanRepository
	workcardRepo repository.WorkcardRepository
	historyRepo  repository.SessionRecordRepository
}

// NewWorkcardService creates a new instance of workcardService.
func NewWorkcardService(
	planRepo repository.PlanRepository,
	workcardRepo repository.WorkcardRepository,
	historyRepo repository.SessionRecordRepository,
) WorkcardService {
	return &workcardService{
		planRepo:     planRepo,
		workcardRepo: workcardRepo,
		historyRepo:  historyRepo,
	}
}

// ExpandPlan creates one workcard per plan day, once. Later calls return the
// existing batch unchanged.
func (s *workcardService) ExpandPlan(ctx context.Context, planID primitive.ObjectID, ownerID string) (*ExpandResult, error) {
	// 1. Load and check the plan
	plan, err := s.planRepo.GetByID(ctx, planID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsExpandable() {
		return nil, ErrPlanNotReady
	}

	// 2. Reuse an existing batch
	existing, err := s.workcardRepo.ListByPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workcards: %w", err)
	}
	if len(existing) > 0 {
		observability.RecordExpansion(len(existing), true)
		return &ExpandResult{Workcards: existing, Reused: true}, nil
	}

	// 3. Build and insert the batch
	cards := BuildWorkcards(plan)
	created, err := s.workcardRepo.CreateMany(ctx, cards)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent expansion; its batch wins.
		winner, listErr := s.workcardRepo.ListByPlan(ctx, ownerID, planID)
		if listErr != nil {
			return nil, fmt.Errorf("failed to look up workcards: %w", listErr)
		}
		observability.RecordExpansion(len(winner), true)
		return &ExpandResult{Workcards: winner, Reused: true}, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to create workcards for plan %s: %v", planID.Hex(), err)
		return nil, fmt.Errorf("failed to create workcards: %w", err)
	}
	observability.RecordExpansion(len(created), false)
	log.Printf("INFO: Expanded plan %s into %d workcard(s)", planID.Hex(), len(created))
	return &ExpandResult{Workcards: created, Reused: false}, nil
}

// BuildWorkcards maps a plan's days to pending workcards in day order.
// Exercises without a name are dropped.
func BuildWorkcards(plan *domain.WorkoutPlan) []domain.Workcard {
	if plan.GeneratedContent == nil {
		return nil
	}
	cards := make([]domain.Workcard, 0, len(plan.GeneratedContent.Days))
	for i, day := range plan.GeneratedContent.Days {
		label := strings.TrimSpace(day.Day)
		if label == "" {
			label = fmt.Sprintf("Day %d", i+1)
		}
		exercises := workcardExercises(day.Exercises)

		cards = append(cards, domain.Workcard{
			OwnerID:    plan.OwnerID,
			PlanID:     plan.ID,
			PlanName:   plan.Name,
			DayIndex:   i + 1,
			DayLabel:   label,
			Focus:      nonEmpty(day.Focus),
			Exercises:  exercises,
			Checked:    make([]bool, len(exercises)),
			TotalCount: len(exercises),
			Status:     domain.WorkcardStatusPending,
		})
	}
	return cards
}

func workcardExercises(in []domain.PlanExercise) []domain.WorkcardExercise {
	out := make([]domain.WorkcardExercise, 0, len(in))
	for _, ex := range in {
		name := strings.TrimSpace(ex.Name)
		if name == "" {
			continue
		}
		out = append(out, domain.WorkcardExercise{
			Name:        name,
			Sets:        ex.Sets,
			Reps:        strings.TrimSpace(ex.Reps),
			RestSeconds: ex.RestSeconds,
			Notes:       strings.TrimSpace(ex.Notes),
		})
	}
	return out
}

func nonEmpty(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ListWorkcards returns the owner's workcards, pending first.
func (s *workcardService) ListWorkcards(ctx context.Context, ownerID string, filter WorkcardListFilter) ([]domain.Workcard, error) {
	repoFilter := repository.WorkcardFilter{PlanID: filter.PlanID}
	switch status := domain.WorkcardStatus(filter.Status); status {
	case domain.WorkcardStatusPending, domain.WorkcardStatusSubmitted:
		repoFilter.Status = status
	}
	return s.workcardRepo.List(ctx, ownerID, repoFilter)
}

// GetWorkcard fetches one owned workcard.
func (s *workcardService) GetWorkcard(ctx context.Context, cardID primitive.ObjectID, ownerID string) (*domain.Workcard, error) {
	card, err := s.workcardRepo.GetByID(ctx, cardID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkcardNotFound
		}
		return nil, err
	}
	return card, nil
}

// UpdateProgress applies schedule and checklist changes to a pending card.
// Completion is recomputed on every call.
func (s *workcardService) UpdateProgress(ctx context.Context, cardID primitive.ObjectID, ownerID string, update ProgressUpdate) (*domain.Workcard, error) {
	card, err := s.GetWorkcard(ctx, cardID, ownerID)
	if err != nil {
		return nil, err
	}
	if card.IsSubmitted() {
		return nil, ErrAlreadySubmitted
	}

	if update.Date != nil {
		card.Date = strings.TrimSpace(*update.Date)
	}
	if update.Weekday != nil {
		card.Weekday = strings.TrimSpace(*update.Weekday)
	}
	if update.Checked != nil {
		card.Checked = update.Checked
	}
	card.Recompute()

	if err := s.workcardRepo.UpdateProgress(ctx, card); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkcardNotFound
		}
		return nil, fmt.Errorf("failed to update workcard: %w", err)
	}
	return card, nil
}

// Submit locks the card and appends its history record. Submitting a card
// twice is a no-op that reports AlreadySubmitted.
func (s *workcardService) Submit(ctx context.Context, cardID primitive.ObjectID, ownerID string) (*SubmitResult, error) {
	// 1. Load
	card, err := s.GetWorkcard(ctx, cardID, ownerID)
	if err != nil {
		return nil, err
	}

	// 2. Replay
	if card.IsSubmitted() {
		observability.RecordSubmission(true)
		return &SubmitResult{Workcard: card, AlreadySubmitted: true}, nil
	}
	if !card.HasSchedule() {
		return nil, ErrMissingSchedule
	}

	// 3. Terminal transition
	card.Recompute()
	now := time.Now().UTC()
	card.Status = domain.WorkcardStatusSubmitted
	card.SubmittedAt = &now
	if err := s.workcardRepo.MarkSubmitted(ctx, card); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkcardNotFound
		}
		return nil, fmt.Errorf("failed to submit workcard: %w", err)
	}

	// 4. History. A failure here leaves a submitted card without a record.
	record := sessionRecordFor(card, now)
	if _, err := s.historyRepo.Create(ctx, record); err != nil {
		log.Printf("ERROR: Workcard %s submitted but history record was not written: %v", card.ID.Hex(), err)
		return nil, fmt.Errorf("failed to record session history: %w", err)
	}

	observability.RecordSubmission(false)
	return &SubmitResult{Workcard: card, Record: record}, nil
}

func sessionRecordFor(card *domain.Workcard, savedAt time.Time) *domain.SessionRecord {
	names := card.CheckedExerciseNames()
	if len(names) == 0 {
		names = []string{domain.NoExercisesCompleted}
	}
	return &domain.SessionRecord{
		OwnerID:         card.OwnerID,
		Source:          domain.SessionSourceWorkcard,
		PlanID:          card.PlanID.Hex(),
		WorkcardID:      card.ID.Hex(),
		DayLabel:        card.DayLabel,
		CompletionScore: card.Score,
		CompletedCount:  card.CompletedCount,
		TotalCount:      card.TotalCount,
		SessionDate:     card.Date,
		SessionWeekday:  card.Weekday,
		Exercises:       names,
		SavedAt:         savedAt,
	}
}
