package memory

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"sync"
	"time"
)

// ProfileRepository stores onboarding profiles in memory.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

// NewProfileRepository constructs an empty ProfileRepository.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]domain.Profile)}
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

// GetByOwner implements repository.ProfileRepository.
func (r *ProfileRepository) GetByOwner(_ context.Context, ownerID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

// Upsert implements repository.ProfileRepository.
func (r *ProfileRepository) Upsert(_ context.Context, profile *domain.Profile) error {
	if profile.OwnerID == "" {
		return errors.New("profile requires ownerId")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profile.OwnerID] = *profile
	return nil
}
