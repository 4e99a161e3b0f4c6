package service

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/repository/memory"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unavailable")

// brokenWorkcards fails the operations named in its flags and delegates the rest.
type brokenWorkcards struct {
	*memory.WorkcardRepository
	failDeleteByPlan bool
	staleListCalls   int // ListByPlan answers empty this many times
}

func (r *brokenWorkcards) DeleteByPlan(ctx context.Context, ownerID string, planID primitive.ObjectID) (int64, error) {
	if r.failDeleteByPlan {
		return 0, errStoreDown
	}
	return r.WorkcardRepository.DeleteByPlan(ctx, ownerID, planID)
}

func (r *brokenWorkcards) ListByPlan(ctx context.Context, ownerID string, planID primitive.ObjectID) ([]domain.Workcard, error) {
	if r.staleListCalls > 0 {
		r.staleListCalls--
		return []domain.Workcard{}, nil
	}
	return r.WorkcardRepository.ListByPlan(ctx, ownerID, planID)
}

type brokenPlans struct {
	*memory.PlanRepository
	failDelete bool
}

func (r *brokenPlans) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	if r.failDelete {
		return errStoreDown
	}
	return r.PlanRepository.Delete(ctx, id, ownerID)
}

type brokenHistory struct {
	*memory.SessionRecordRepository
}

func (r *brokenHistory) Create(context.Context, *domain.SessionRecord) (primitive.ObjectID, error) {
	return primitive.NilObjectID, errStoreDown
}

// contextAwarePlans refuses to write once the caller's context is done, as a
// network-backed store would.
type contextAwarePlans struct {
	*memory.PlanRepository
}

func (r *contextAwarePlans) GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.PlanRepository.GetByID(ctx, id, ownerID)
}

func (r *contextAwarePlans) SetStatus(ctx context.Context, id primitive.ObjectID, ownerID string, status domain.PlanStatus, lastError string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.PlanRepository.SetStatus(ctx, id, ownerID, status, lastError)
}

func (r *contextAwarePlans) SetGenerated(ctx context.Context, id primitive.ObjectID, ownerID string, content *domain.PlanContent, transcriptKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.PlanRepository.SetGenerated(ctx, id, ownerID, content, transcriptKey)
}

// hangupGenerator cancels the request context mid-call, like a client disconnecting.
type hangupGenerator struct {
	cancel   context.CancelFunc
	err      error
	sawError error
}

func (g *hangupGenerator) Generate(ctx context.Context, _ generation.Profile) (*generation.Result, error) {
	g.cancel()
	g.sawError = ctx.Err()
	if g.err != nil {
		return nil, g.err
	}
	return &generation.Result{Content: samplePlanContent(2, 2), RawText: `{"raw":true}`}, nil
}

// planWithHistory returns a ready plan with three cards, two of them submitted.
func (f *fixture) planWithHistory(t *testing.T) (*domain.WorkoutPlan, []domain.Workcard) {
	t.Helper()
	plan := f.readyPlan(t)
	expanded, err := f.workcardSvc.ExpandPlan(context.Background(), plan.ID, testOwner)
	require.NoError(t, err)
	require.Len(t, expanded.Workcards, 3)
	f.submit(t, expanded.Workcards[0].ID)
	f.submit(t, expanded.Workcards[1].ID)
	return plan, expanded.Workcards
}

func (f *fixture) historyCount(t *testing.T) int {
	t.Helper()
	records, err := f.historySvc.ListHistory(context.Background(), testOwner)
	require.NoError(t, err)
	return len(records)
}

func TestDeletePlanInterruptedAfterHistoryLeavesNoDanglingHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan, _ := f.planWithHistory(t)
	require.Equal(t, 2, f.historyCount(t))

	cards := &brokenWorkcards{WorkcardRepository: f.cards, failDeleteByPlan: true}
	cascade := NewCascadeService(f.plans, cards, f.history, f.store)

	_, err := cascade.DeletePlan(ctx, plan.ID, testOwner)
	require.ErrorIs(t, err, errStoreDown)

	// History went first; the plan and its cards are still there.
	require.Zero(t, f.historyCount(t))
	left, err := f.cards.ListByPlan(ctx, testOwner, plan.ID)
	require.NoError(t, err)
	require.Len(t, left, 3)
	f.mustPlan(t, plan.ID)
	require.Empty(t, f.store.deleted)

	// A retry finishes the job.
	result, err := f.cascadeSvc.DeletePlan(ctx, plan.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, int64(3), result.WorkcardsDeleted)
	require.Zero(t, result.HistoryDeleted)
}

func TestDeletePlanInterruptedBeforePlanKeepsOnlyThePlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan, _ := f.planWithHistory(t)

	plans := &brokenPlans{PlanRepository: f.plans, failDelete: true}
	cascade := NewCascadeService(plans, f.cards, f.history, f.store)

	_, err := cascade.DeletePlan(ctx, plan.ID, testOwner)
	require.ErrorIs(t, err, errStoreDown)

	require.Zero(t, f.historyCount(t))
	left, err := f.cards.ListByPlan(ctx, testOwner, plan.ID)
	require.NoError(t, err)
	require.Empty(t, left)
	f.mustPlan(t, plan.ID)
}

func TestSubmitHistoryFailureLeavesCardSubmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.readyPlan(t)
	expanded, err := f.workcardSvc.ExpandPlan(ctx, plan.ID, testOwner)
	require.NoError(t, err)
	cardID := expanded.Workcards[0].ID

	_, err = f.workcardSvc.UpdateProgress(ctx, cardID, testOwner, ProgressUpdate{
		Date:    ptr("2024-05-01"),
		Weekday: ptr("Wednesday"),
		Checked: []bool{true, true},
	})
	require.NoError(t, err)

	svc := NewWorkcardService(f.plans, f.cards, &brokenHistory{SessionRecordRepository: f.history})
	_, err = svc.Submit(ctx, cardID, testOwner)
	require.ErrorIs(t, err, errStoreDown)

	card, err := f.workcardSvc.GetWorkcard(ctx, cardID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.WorkcardStatusSubmitted, card.Status)
	require.NotNil(t, card.SubmittedAt)
	require.Equal(t, 2, card.CompletedCount)

	// The replay succeeds without writing the missing record.
	res, err := f.workcardSvc.Submit(ctx, cardID, testOwner)
	require.NoError(t, err)
	require.True(t, res.AlreadySubmitted)
	require.Nil(t, res.Record)
	require.Zero(t, f.historyCount(t))
}

func TestRequestGenerationSurvivesCallerCancellation(t *testing.T) {
	tests := []struct {
		name      string
		genErr    error
		wantState domain.PlanStatus
	}{
		{name: "success", wantState: domain.PlanStatusReady},
		{name: "failure", genErr: errors.New("upstream timed out"), wantState: domain.PlanStatusFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			plan, err := f.planSvc.CreatePlan(context.Background(), testOwner, CreatePlanInput{Name: "Cancelled", FitnessLevel: "beginner"})
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			gen := &hangupGenerator{cancel: cancel, err: tc.genErr}
			svc := NewPlanService(&contextAwarePlans{PlanRepository: f.plans}, f.profiles, gen, f.store)

			got, err := svc.RequestGeneration(ctx, plan.ID, testOwner)
			require.NoError(t, err)
			require.NoError(t, gen.sawError, "generator must not see the caller's cancellation")
			require.Error(t, ctx.Err())
			require.Equal(t, tc.wantState, got.Status)

			stored := f.mustPlan(t, plan.ID)
			require.Equal(t, tc.wantState, stored.Status)
			if tc.genErr != nil {
				require.Equal(t, "upstream timed out", stored.LastError)
				require.Nil(t, stored.GeneratedContent)
			} else {
				require.Empty(t, stored.LastError)
				require.Len(t, stored.GeneratedContent.Days, 2)
			}
		})
	}
}

func TestExpandPlanLosingRaceReturnsWinningBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.readyPlan(t)

	first, err := f.workcardSvc.ExpandPlan(ctx, plan.ID, testOwner)
	require.NoError(t, err)

	// The second caller checked for a batch before the first one was written.
	cards := &brokenWorkcards{WorkcardRepository: f.cards, staleListCalls: 1}
	svc := NewWorkcardService(f.plans, cards, f.history)

	second, err := svc.ExpandPlan(ctx, plan.ID, testOwner)
	require.NoError(t, err)
	require.True(t, second.Reused)
	require.Equal(t, cardIDHexes(first.Workcards), cardIDHexes(second.Workcards))

	all, err := f.cards.ListByPlan(ctx, testOwner, plan.ID)
	require.NoError(t, err)
	require.Len(t, all, len(first.Workcards))
}
