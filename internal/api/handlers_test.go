package api

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/repository/memory"
	"alcyxob/workout-planner/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeGenerator struct {
	err error
}

func (g *fakeGenerator) Generate(context.Context, generation.Profile) (*generation.Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	sets := 3.0
	return &generation.Result{Content: &domain.PlanContent{
		Title: "Generated",
		Days: []domain.PlanDay{
			{Day: "Day 1", Exercises: []domain.PlanExercise{{Name: "Squat", Sets: &sets}, {Name: "Lunge"}}},
			{Day: "Day 2", Exercises: []domain.PlanExercise{{Name: "Bench"}}},
		},
	}}, nil
}

type testServer struct {
	router *gin.Engine
	gen    *fakeGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	plans := memory.NewPlanRepository()
	cards := memory.NewWorkcardRepository()
	history := memory.NewSessionRecordRepository()
	profiles := memory.NewProfileRepository()
	gen := &fakeGenerator{}

	router := gin.New()
	SetupRoutes(router, testSecret,
		service.NewPlanService(plans, profiles, gen, nil),
		service.NewWorkcardService(plans, cards, history),
		service.NewCascadeService(plans, cards, history, nil),
		service.NewHistoryService(history),
		service.NewProfileService(profiles),
	)
	return &testServer{router: router, gen: gen}
}

func mintToken(t *testing.T, uid string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "", http.MethodGet, "/api/v1/plans", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, mintToken(t, "user-1", -time.Minute), http.MethodGet, "/api/v1/plans", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, mintToken(t, "", time.Hour), http.MethodGet, "/api/v1/plans", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, mintToken(t, "user-1", time.Hour), http.MethodGet, "/api/v1/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, "", http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPlanToHistoryFlow(t *testing.T) {
	s := newTestServer(t)
	token := mintToken(t, "user-1", time.Hour)

	// Create
	rec := s.do(t, token, http.MethodPost, "/api/v1/plans", CreatePlanRequest{Name: "Flow", FitnessLevel: "beginner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	plan := decode[domain.WorkoutPlan](t, rec)
	require.Equal(t, domain.PlanStatusDraft, plan.Status)
	base := "/api/v1/plans/" + plan.ID.Hex()

	// Expanding a draft is refused
	rec = s.do(t, token, http.MethodPost, base+"/workcards", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Generate
	rec = s.do(t, token, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	generated := decode[struct {
		Plan domain.WorkoutPlan `json:"plan"`
	}](t, rec)
	require.Equal(t, domain.PlanStatusReady, generated.Plan.Status)

	// Expand twice
	type expandBody struct {
		Workcards []domain.Workcard `json:"workcards"`
		Reused    bool              `json:"reused"`
	}
	rec = s.do(t, token, http.MethodPost, base+"/workcards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[expandBody](t, rec)
	require.Len(t, first.Workcards, 2)
	require.False(t, first.Reused)

	rec = s.do(t, token, http.MethodPost, base+"/workcards", nil)
	second := decode[expandBody](t, rec)
	require.True(t, second.Reused)
	require.Equal(t, first.Workcards[0].ID, second.Workcards[0].ID)

	card := first.Workcards[0]
	cardPath := "/api/v1/workcards/" + card.ID.Hex()

	// Submit without schedule
	rec = s.do(t, token, http.MethodPost, cardPath+"/submit", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Progress
	rec = s.do(t, token, http.MethodPatch, cardPath, map[string]any{
		"date": "2024-05-01", "weekday": "Wednesday", "checked": []bool{true, false, true},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[domain.Workcard](t, rec)
	require.Equal(t, []bool{true, false}, updated.Checked)
	require.Equal(t, 50, updated.Score)

	// Submit and replay
	rec = s.do(t, token, http.MethodPost, cardPath+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, token, http.MethodPost, cardPath+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	replay := decode[struct {
		AlreadySubmitted bool `json:"alreadySubmitted"`
	}](t, rec)
	require.True(t, replay.AlreadySubmitted)

	rec = s.do(t, token, http.MethodPatch, cardPath, map[string]any{"checked": []bool{true, true}})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, token, http.MethodGet, "/api/v1/history", nil)
	history := decode[[]domain.SessionRecord](t, rec)
	require.Len(t, history, 1)
	require.Equal(t, []string{"Squat"}, history[0].Exercises)

	// Another user sees nothing
	other := mintToken(t, "user-2", time.Hour)
	rec = s.do(t, other, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, other, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Cascade
	rec = s.do(t, token, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, token, http.MethodGet, "/api/v1/workcards?planId="+plan.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]domain.Workcard](t, rec))

	rec = s.do(t, token, http.MethodGet, "/api/v1/history", nil)
	require.Empty(t, decode[[]domain.SessionRecord](t, rec))
}

func TestGenerateFailureReportsBadGateway(t *testing.T) {
	s := newTestServer(t)
	token := mintToken(t, "user-1", time.Hour)
	s.gen.err = &generation.GenerationError{Op: "validate", Err: generation.ErrEmptyPlan}

	rec := s.do(t, token, http.MethodPost, "/api/v1/plans", CreatePlanRequest{})
	plan := decode[domain.WorkoutPlan](t, rec)
	require.Equal(t, service.DefaultPlanName, plan.Name)

	rec = s.do(t, token, http.MethodPost, "/api/v1/plans/"+plan.ID.Hex()+"/generate", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[struct {
		Error string             `json:"error"`
		Plan  domain.WorkoutPlan `json:"plan"`
	}](t, rec)
	require.Equal(t, domain.PlanStatusFailed, body.Plan.Status)
	require.NotEmpty(t, body.Error)

	rec = s.do(t, token, http.MethodGet, "/api/v1/plans/"+plan.ID.Hex()+"/transcript", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidIDsAndValidation(t *testing.T) {
	s := newTestServer(t)
	token := mintToken(t, "user-1", time.Hour)

	rec := s.do(t, token, http.MethodGet, "/api/v1/plans/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, token, http.MethodGet, "/api/v1/workcards?planId=zzz", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, token, http.MethodPost, "/api/v1/history", ManualSessionRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, token, http.MethodPost, "/api/v1/history", ManualSessionRequest{Exercises: []string{"Run"}})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := mintToken(t, "user-1", time.Hour)

	rec := s.do(t, token, http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[domain.Profile](t, rec).OnboardingComplete)

	rec = s.do(t, token, http.MethodPost, "/api/v1/profile/plan", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	freq := 3
	rec = s.do(t, token, http.MethodPut, "/api/v1/profile", SaveProfileRequest{FitnessLevel: "pro", TargetMuscles: []string{"back"}, Frequency: &freq})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, token, http.MethodPost, "/api/v1/profile/plan", PlanFromProfileRequest{Name: "From onboarding"})
	require.Equal(t, http.StatusCreated, rec.Code)
	plan := decode[domain.WorkoutPlan](t, rec)
	require.Equal(t, domain.PlanOriginOnboarding, plan.Origin)
	require.Equal(t, "From onboarding", plan.Name)
	require.Equal(t, []string{"back"}, plan.TargetMuscles)
}
