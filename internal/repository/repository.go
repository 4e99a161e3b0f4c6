package repository

import (
	"alcyxob/workout-planner/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Every read and write below is scoped by ownerID. A document owned by someone
// else is indistinguishable from a missing one (ErrNotFound).

// PlanRepository stores workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutPlan, error)
	// SetStatus changes status and lastError, leaving generated content untouched.
	SetStatus(ctx context.Context, id primitive.ObjectID, ownerID string, status domain.PlanStatus, lastError string) error
	// SetGenerated stores new content, marks the plan ready and clears lastError.
	SetGenerated(ctx context.Context, id primitive.ObjectID, ownerID string, content *domain.PlanContent, transcriptKey string) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
}

// WorkcardFilter narrows workcard listings. Zero values mean "any".
type WorkcardFilter struct {
	Status domain.WorkcardStatus
	PlanID primitive.ObjectID
}

// WorkcardRepository stores workcards.
type WorkcardRepository interface {
	// CreateMany inserts a whole batch and returns it with ids and timestamps set.
	// A card whose (ownerId, planId, dayIndex) already exists fails with ErrDuplicate.
	CreateMany(ctx context.Context, cards []domain.Workcard) ([]domain.Workcard, error)
	GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.Workcard, error)
	// List sorts pending before submitted, then by dayIndex, then newest first.
	List(ctx context.Context, ownerID string, filter WorkcardFilter) ([]domain.Workcard, error)
	// ListByPlan returns a plan's workcards ordered by dayIndex.
	ListByPlan(ctx context.Context, ownerID string, planID primitive.ObjectID) ([]domain.Workcard, error)
	// UpdateProgress persists date, weekday, checked and the derived counters.
	UpdateProgress(ctx context.Context, card *domain.Workcard) error
	// MarkSubmitted persists the submitted state together with the final counters.
	MarkSubmitted(ctx context.Context, card *domain.Workcard) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
	DeleteByPlan(ctx context.Context, ownerID string, planID primitive.ObjectID) (int64, error)
}

// SessionRecordRepository stores the append-only history log.
type SessionRecordRepository interface {
	Create(ctx context.Context, record *domain.SessionRecord) (primitive.ObjectID, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SessionRecord, error)
	// DeleteForPlan removes records tagged with planID or with any of workcardIDs.
	DeleteForPlan(ctx context.Context, ownerID, planID string, workcardIDs []string) (int64, error)
	DeleteByWorkcard(ctx context.Context, ownerID, workcardID string) (int64, error)
}

// ProfileRepository stores onboarding answers, one document per owner.
type ProfileRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}
