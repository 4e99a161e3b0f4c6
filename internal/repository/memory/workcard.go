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

// WorkcardRepository stores workcards in memory.
type WorkcardRepository struct {
	mu    sync.RWMutex
	cards map[primitive.ObjectID]domain.Workcard
}

// NewWorkcardRepository constructs an empty WorkcardRepository.
func NewWorkcardRepository() *WorkcardRepository {
	return &WorkcardRepository{cards: make(map[primitive.ObjectID]domain.Workcard)}
}

var _ repository.WorkcardRepository = (*WorkcardRepository)(nil)

// CreateMany implements repository.WorkcardRepository.
func (r *WorkcardRepository) CreateMany(_ context.Context, cards []domain.Workcard) ([]domain.Workcard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, card := range cards {
		if r.hasDay(card.OwnerID, card.PlanID, card.DayIndex) {
			return nil, repository.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	out := make([]domain.Workcard, len(cards))
	for i, card := range cards {
		if card.OwnerID == "" || card.PlanID == primitive.NilObjectID {
			return nil, errors.New("workcard requires ownerId and planId")
		}
		card.ID = primitive.NewObjectID()
		card.CreatedAt = now
		card.UpdatedAt = now
		if card.Status == "" {
			card.Status = domain.WorkcardStatusPending
		}
		r.cards[card.ID] = cloneWorkcard(card)
		out[i] = card
	}
	return out, nil
}

func (r *WorkcardRepository) hasDay(ownerID string, planID primitive.ObjectID, dayIndex int) bool {
	for _, card := range r.cards {
		if card.OwnerID == ownerID && card.PlanID == planID && card.DayIndex == dayIndex {
			return true
		}
	}
	return false
}

// GetByID implements repository.WorkcardRepository.
func (r *WorkcardRepository) GetByID(_ context.Context, id primitive.ObjectID, ownerID string) (*domain.Workcard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok || card.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	card = cloneWorkcard(card)
	return &card, nil
}

// List implements repository.WorkcardRepository.
func (r *WorkcardRepository) List(_ context.Context, ownerID string, filter repository.WorkcardFilter) ([]domain.Workcard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Workcard{}
	for _, card := range r.cards {
		if card.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && card.Status != filter.Status {
			continue
		}
		if filter.PlanID != primitive.NilObjectID && card.PlanID != filter.PlanID {
			continue
		}
		out = append(out, cloneWorkcard(card))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		if out[i].DayIndex != out[j].DayIndex {
			return out[i].DayIndex < out[j].DayIndex
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListByPlan implements repository.WorkcardRepository.
func (r *WorkcardRepository) ListByPlan(_ context.Context, ownerID string, planID primitive.ObjectID) ([]domain.Workcard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Workcard{}
	for _, card := range r.cards {
		if card.OwnerID == ownerID && card.PlanID == planID {
			out = append(out, cloneWorkcard(card))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

// UpdateProgress implements repository.WorkcardRepository.
func (r *WorkcardRepository) UpdateProgress(_ context.Context, card *domain.Workcard) error {
	return r.update(card, func(stored *domain.Workcard) {
		stored.Date = card.Date
		stored.Weekday = card.Weekday
		stored.Checked = cloneSlice(card.Checked)
		stored.CompletedCount = card.CompletedCount
		stored.Score = card.Score
	})
}

// MarkSubmitted implements repository.WorkcardRepository.
func (r *WorkcardRepository) MarkSubmitted(_ context.Context, card *domain.Workcard) error {
	if card.SubmittedAt == nil {
		return errors.New("submittedAt is required to mark a workcard submitted")
	}
	return r.update(card, func(stored *domain.Workcard) {
		stored.Status = domain.WorkcardStatusSubmitted
		stored.SubmittedAt = card.SubmittedAt
		stored.Checked = cloneSlice(card.Checked)
		stored.CompletedCount = card.CompletedCount
		stored.Score = card.Score
	})
}

func (r *WorkcardRepository) update(card *domain.Workcard, mutate func(*domain.Workcard)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.cards[card.ID]
	if !ok || stored.OwnerID != card.OwnerID {
		return repository.ErrNotFound
	}
	mutate(&stored)
	stored.UpdatedAt = time.Now().UTC()
	card.UpdatedAt = stored.UpdatedAt
	r.cards[card.ID] = stored
	return nil
}

// Delete implements repository.WorkcardRepository.
func (r *WorkcardRepository) Delete(_ context.Context, id primitive.ObjectID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[id]
	if !ok || card.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.cards, id)
	return nil
}

// DeleteByPlan implements repository.WorkcardRepository.
func (r *WorkcardRepository) DeleteByPlan(_ context.Context, ownerID string, planID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, card := range r.cards {
		if card.OwnerID == ownerID && card.PlanID == planID {
			delete(r.cards, id)
			n++
		}
	}
	return n, nil
}

func cloneWorkcard(card domain.Workcard) domain.Workcard {
	card.Focus = cloneSlice(card.Focus)
	card.Exercises = cloneSlice(card.Exercises)
	card.Checked = cloneSlice(card.Checked)
	return card
}

// cloneSlice copies s, keeping nil as nil and empty as empty.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
