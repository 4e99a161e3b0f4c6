package service

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/observability"
	"alcyxob/workout-planner/internal/repository"
	"alcyxob/workout-planner/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPlanName is used when a plan is created without a name.
const DefaultPlanName = "Workout Plan"

// CreatePlanInput carries the user-supplied plan parameters.
type CreatePlanInput struct {
	Name            string
	Origin          domain.PlanOrigin // Only PlanOriginOnboarding is honored; anything else is custom
	FitnessLevel    string
	TargetMuscles   []string
	Frequency       *int
	SessionDuration *int
	Preferences     string
}

// PlanService owns the workout plan lifecycle: draft -> generating -> ready/failed.
type PlanService interface {
	CreatePlan(ctx context.Context, ownerID string, input CreatePlanInput) (*domain.WorkoutPlan, error)
	// CreatePlanFromProfile copies the owner's onboarding answers into a new draft plan.
	CreatePlanFromProfile(ctx context.Context, ownerID, name string) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, ownerID string) ([]domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, planID primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error)
	// RequestGeneration runs one generation attempt synchronously. A failed attempt
	// is not an error: it is returned as a plan in the failed state.
	RequestGeneration(ctx context.Context, planID primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error)
	// TranscriptURL returns a short-lived download link for the last archived generation response.
	TranscriptURL(ctx context.Context, planID primitive.ObjectID, ownerID string) (string, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo    repository.PlanRepository
	profileRepo repository.ProfileRepository
	generator   generation.Generator
	transcripts storage.FileStorage
}

// NewPlanService creates a new instance of planService. A nil transcripts
// store disables archiving.
func NewPlanService(
	planRepo repository.PlanRepository,
	profileRepo repository.ProfileRepository,
	generator generation.Generator,
	transcripts storage.FileStorage,
) PlanService {
	if transcripts == nil {
		transcripts = storage.NoopStorage{}
	}
	return &planService{
		planRepo:    planRepo,
		profileRepo: profileRepo,
		generator:   generator,
		transcripts: transcripts,
	}
}

// CreatePlan stores a new draft plan.
func (s *planService) CreatePlan(ctx context.Context, ownerID string, input CreatePlanInput) (*domain.WorkoutPlan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultPlanName
	}
	origin := domain.PlanOriginCustom
	if input.Origin == domain.PlanOriginOnboarding {
		origin = domain.PlanOriginOnboarding
	}

	plan := &domain.WorkoutPlan{
		OwnerID:         ownerID,
		Name:            name,
		Origin:          origin,
		FitnessLevel:    strings.TrimSpace(input.FitnessLevel),
		TargetMuscles:   generation.NormalizeTags(input.TargetMuscles),
		Frequency:       positiveOrNil(input.Frequency),
		SessionDuration: positiveOrNil(input.SessionDuration),
		Preferences:     strings.TrimSpace(input.Preferences),
		Status:          domain.PlanStatusDraft,
	}

	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		log.Printf("ERROR: Failed to create plan for owner %s: %v", ownerID, err)
		return nil, fmt.Errorf("failed to create workout plan: %w", err)
	}
	return plan, nil
}

// CreatePlanFromProfile derives a draft plan from the stored onboarding profile.
func (s *planService) CreatePlanFromProfile(ctx context.Context, ownerID, name string) (*domain.WorkoutPlan, error) {
	profile, err := s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = "My Onboarding Plan"
	}
	return s.CreatePlan(ctx, ownerID, CreatePlanInput{
		Name:            name,
		Origin:          domain.PlanOriginOnboarding,
		FitnessLevel:    profile.FitnessLevel,
		TargetMuscles:   profile.TargetMuscles,
		Frequency:       profile.Frequency,
		SessionDuration: profile.SessionDuration,
		Preferences:     profile.Preferences,
	})
}

// ListPlans returns the owner's plans, most recently updated first.
func (s *planService) ListPlans(ctx context.Context, ownerID string) ([]domain.WorkoutPlan, error) {
	return s.planRepo.ListByOwner(ctx, ownerID)
}

// GetPlan fetches one owned plan.
func (s *planService) GetPlan(ctx context.Context, planID primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// RequestGeneration moves the plan to generating, calls the generator and
// persists the terminal transition. The two writes are independent; a crash
// between them leaves the plan in generating until the next request.
func (s *planService) RequestGeneration(ctx context.Context, planID primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error) {
	// 1. Ownership check
	plan, err := s.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}

	// 2. Enter generating, visible to readers before the external call
	if err := s.planRepo.SetStatus(ctx, planID, ownerID, domain.PlanStatusGenerating, ""); err != nil {
		return nil, s.mapPlanErr(err)
	}

	// A caller going away must not strand the plan in generating.
	workCtx := context.WithoutCancel(ctx)

	// 3. Call the generator
	started := time.Now()
	result, genErr := s.generator.Generate(workCtx, generation.Profile{
		ExperienceLevel: plan.FitnessLevel,
		TargetMuscles:   plan.TargetMuscles,
		Frequency:       plan.Frequency,
		SessionDuration: plan.SessionDuration,
		Preferences:     plan.Preferences,
	})
	elapsed := time.Since(started)

	// 4a. Failure is recorded as state, previous content stays
	if genErr != nil {
		observability.RecordGeneration(string(domain.PlanStatusFailed), elapsed)
		log.Printf("WARN: Generation failed for plan %s (owner %s) after %s: %v", planID.Hex(), ownerID, elapsed.Round(time.Millisecond), genErr)
		if err := s.planRepo.SetStatus(workCtx, planID, ownerID, domain.PlanStatusFailed, failureMessage(genErr)); err != nil {
			return nil, s.mapPlanErr(err)
		}
		return s.GetPlan(workCtx, planID, ownerID)
	}

	// 4b. Success: archive the raw response, then store content
	key := s.archiveTranscript(workCtx, ownerID, planID, result.RawText)
	if err := s.planRepo.SetGenerated(workCtx, planID, ownerID, result.Content, key); err != nil {
		return nil, s.mapPlanErr(err)
	}
	observability.RecordGeneration(string(domain.PlanStatusReady), elapsed)
	log.Printf("INFO: Plan %s generated with %d day(s) in %s", planID.Hex(), len(result.Content.Days), elapsed.Round(time.Millisecond))

	if key != "" && plan.LastTranscriptKey != "" && plan.LastTranscriptKey != key {
		if err := s.transcripts.DeleteObject(workCtx, plan.LastTranscriptKey); err != nil {
			log.Printf("WARN: Failed to remove superseded transcript %s: %v", plan.LastTranscriptKey, err)
		}
	}
	return s.GetPlan(workCtx, planID, ownerID)
}

// archiveTranscript stores the raw response and returns its key, or "" when
// archiving is disabled or failed.
func (s *planService) archiveTranscript(ctx context.Context, ownerID string, planID primitive.ObjectID, raw string) string {
	if _, disabled := s.transcripts.(storage.NoopStorage); disabled || raw == "" {
		return ""
	}
	key := storage.TranscriptKey(ownerID, planID.Hex())
	if err := s.transcripts.PutObject(ctx, key, "application/json", []byte(raw)); err != nil {
		log.Printf("WARN: Failed to archive transcript for plan %s: %v", planID.Hex(), err)
		return ""
	}
	return key
}

// TranscriptURL presigns a download link for the plan's last transcript.
func (s *planService) TranscriptURL(ctx context.Context, planID primitive.ObjectID, ownerID string) (string, error) {
	plan, err := s.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return "", err
	}
	if plan.LastTranscriptKey == "" {
		return "", fmt.Errorf("transcript %w", ErrNotFound)
	}
	return s.transcripts.GeneratePresignedDownloadURL(ctx, plan.LastTranscriptKey, storage.DefaultPresignedURLExpiry)
}

func (s *planService) mapPlanErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

func failureMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Generation failed"
	}
	return msg
}

func positiveOrNil(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}
