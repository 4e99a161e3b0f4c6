package service

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"strings"
)

// ProfileInput carries onboarding answers.
type ProfileInput struct {
	Email           string
	FitnessLevel    string
	TargetMuscles   []string
	Frequency       *int
	SessionDuration *int
	Preferences     string
}

// ProfileService stores onboarding answers.
type ProfileService interface {
	// GetProfile never fails with not found: a missing profile reads as an empty one.
	GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, ownerID string, input ProfileInput) (*domain.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByOwner(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.Profile{OwnerID: ownerID, TargetMuscles: []string{}}, nil
	}
	return profile, err
}

func (s *profileService) SaveProfile(ctx context.Context, ownerID string, input ProfileInput) (*domain.Profile, error) {
	profile := &domain.Profile{
		OwnerID:            ownerID,
		Email:              strings.TrimSpace(input.Email),
		FitnessLevel:       strings.TrimSpace(input.FitnessLevel),
		TargetMuscles:      generation.NormalizeTags(input.TargetMuscles),
		Frequency:          positiveOrNil(input.Frequency),
		SessionDuration:    positiveOrNil(input.SessionDuration),
		Preferences:        strings.TrimSpace(input.Preferences),
		OnboardingComplete: true,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
