package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeChecked(t *testing.T) {
	require.Equal(t, []bool{true, false, false}, NormalizeChecked([]bool{true}, 3))
	require.Equal(t, []bool{true, true}, NormalizeChecked([]bool{true, true, true}, 2))
	require.Equal(t, []bool{}, NormalizeChecked(nil, 0))
	require.Equal(t, []bool{}, NormalizeChecked([]bool{true}, -1))

	in := []bool{true, false}
	out := NormalizeChecked(in, 2)
	out[0] = false
	require.True(t, in[0], "input must not be aliased")
}

func TestWorkcardRecomputeKeepsLengthsAligned(t *testing.T) {
	card := Workcard{
		Exercises:  []WorkcardExercise{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}},
		TotalCount: 4,
		Checked:    []bool{true, true, false, true, true, true},
	}
	card.Recompute()

	require.Len(t, card.Checked, len(card.Exercises))
	require.Equal(t, 3, card.CompletedCount)
	require.Equal(t, 75, card.Score)
	require.Equal(t, []string{"A", "B", "D"}, card.CheckedExerciseNames())
}

func TestWorkcardStateHelpers(t *testing.T) {
	card := Workcard{Status: WorkcardStatusPending, Date: "2024-05-01"}
	require.False(t, card.IsSubmitted())
	require.False(t, card.HasSchedule())

	card.Weekday = "Wednesday"
	require.True(t, card.HasSchedule())

	card.Status = WorkcardStatusSubmitted
	require.True(t, card.IsSubmitted())
}

func TestWorkoutPlanIsExpandable(t *testing.T) {
	plan := WorkoutPlan{Status: PlanStatusReady}
	require.False(t, plan.IsExpandable())

	plan.GeneratedContent = &PlanContent{}
	require.False(t, plan.IsExpandable())

	plan.GeneratedContent.Days = []PlanDay{{Day: "Day 1"}}
	require.True(t, plan.IsExpandable())

	plan.Status = PlanStatusFailed
	require.False(t, plan.IsExpandable())
}
