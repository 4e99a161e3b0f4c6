package service

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/repository/memory"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

type stubGenerator struct {
	mu       sync.Mutex
	calls    int
	profiles []generation.Profile
	next     func(call int) (*generation.Result, error)
}

func (g *stubGenerator) Generate(_ context.Context, p generation.Profile) (*generation.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.profiles = append(g.profiles, p)
	return g.next(g.calls)
}

func succeedWith(content *domain.PlanContent) func(int) (*generation.Result, error) {
	return func(int) (*generation.Result, error) {
		return &generation.Result{Content: content, RawText: `{"raw":true}`}, nil
	}
}

func failWith(err error) func(int) (*generation.Result, error) {
	return func(int) (*generation.Result, error) { return nil, err }
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (m *memStorage) PutObject(_ context.Context, key, _ string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	return nil
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://objects.example/" + key, nil
}

func (m *memStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type fixture struct {
	plans    *memory.PlanRepository
	cards    *memory.WorkcardRepository
	history  *memory.SessionRecordRepository
	profiles *memory.ProfileRepository
	gen      *stubGenerator
	store    *memStorage

	planSvc     PlanService
	workcardSvc WorkcardService
	cascadeSvc  CascadeService
	historySvc  HistoryService
	profileSvc  ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		plans:    memory.NewPlanRepository(),
		cards:    memory.NewWorkcardRepository(),
		history:  memory.NewSessionRecordRepository(),
		profiles: memory.NewProfileRepository(),
		gen:      &stubGenerator{next: succeedWith(samplePlanContent(3, 4))},
		store:    newMemStorage(),
	}
	f.planSvc = NewPlanService(f.plans, f.profiles, f.gen, f.store)
	f.workcardSvc = NewWorkcardService(f.plans, f.cards, f.history)
	f.cascadeSvc = NewCascadeService(f.plans, f.cards, f.history, f.store)
	f.historySvc = NewHistoryService(f.history)
	f.profileSvc = NewProfileService(f.profiles)
	return f
}

func samplePlanContent(days, exercisesPerDay int) *domain.PlanContent {
	content := &domain.PlanContent{Title: "Test Plan", Summary: "summary"}
	for d := 1; d <= days; d++ {
		day := domain.PlanDay{Day: fmt.Sprintf("Day %d", d), Focus: []string{"chest"}}
		for e := 1; e <= exercisesPerDay; e++ {
			sets := 3.0
			day.Exercises = append(day.Exercises, domain.PlanExercise{Name: fmt.Sprintf("Exercise %d.%d", d, e), Sets: &sets, Reps: "8-10"})
		}
		content.Days = append(content.Days, day)
	}
	return content
}

// readyPlan creates a plan and runs one successful generation.
func (f *fixture) readyPlan(t *testing.T) *domain.WorkoutPlan {
	t.Helper()
	ctx := context.Background()
	plan, err := f.planSvc.CreatePlan(ctx, testOwner, CreatePlanInput{Name: "Push Pull", FitnessLevel: "beginner"})
	require.NoError(t, err)
	plan, err = f.planSvc.RequestGeneration(ctx, plan.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.PlanStatusReady, plan.Status)
	return plan
}

func ptr[T any](v T) *T { return &v }
