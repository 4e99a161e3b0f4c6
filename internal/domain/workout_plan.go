// internal/domain/workout_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus tracks where a plan is in its generation lifecycle.
type PlanStatus string

const (
	PlanStatusDraft      PlanStatus = "draft"
	PlanStatusGenerating PlanStatus = "generating" // Set before the external call, visible to readers immediately
	PlanStatusReady      PlanStatus = "ready"
	PlanStatusFailed     PlanStatus = "failed"
)

// PlanOrigin records how a plan came to exist.
type PlanOrigin string

const (
	PlanOriginOnboarding PlanOrigin = "onboarding"
	PlanOriginCustom     PlanOrigin = "custom"
)

// WorkoutPlan is a named set of generation parameters owned by one user.
// Once generated it also carries the structured multi-day workout.
type WorkoutPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID       string             `bson:"ownerId" json:"ownerId"`
	Name          string             `bson:"name" json:"name"`
	Origin        PlanOrigin         `bson:"origin" json:"origin"`
	FitnessLevel  string             `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	TargetMuscles []string           `bson:"targetMuscles" json:"targetMuscles"`

	Frequency       *int   `bson:"frequency,omitempty" json:"frequency,omitempty"`             // Sessions per week
	SessionDuration *int   `bson:"sessionDuration,omitempty" json:"sessionDuration,omitempty"` // Minutes per session
	Preferences     string `bson:"preferences,omitempty" json:"preferences,omitempty"`

	Status PlanStatus `bson:"status" json:"status"`
	// GeneratedContent survives a later failed attempt; Status always reflects the latest attempt.
	GeneratedContent  *PlanContent `bson:"generatedContent,omitempty" json:"generatedContent,omitempty"`
	LastError         string       `bson:"lastError,omitempty" json:"lastError,omitempty"`
	LastTranscriptKey string       `bson:"lastTranscriptKey,omitempty" json:"-"` // Object key of the archived raw response

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsExpandable reports whether workcards can be produced from this plan.
func (p *WorkoutPlan) IsExpandable() bool {
	return p.Status == PlanStatusReady && p.GeneratedContent != nil && len(p.GeneratedContent.Days) > 0
}

// PlanContent is the validated output of a generation call.
type PlanContent struct {
	Title   string    `bson:"title" json:"title"`
	Summary string    `bson:"summary" json:"summary"`
	Days    []PlanDay `bson:"days" json:"days"`
	Notes   []string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// PlanDay is one day of a generated plan.
type PlanDay struct {
	Day             string         `bson:"day" json:"day"` // e.g. "Day 1" or "Monday Push"
	Focus           []string       `bson:"focus,omitempty" json:"focus,omitempty"`
	DurationMinutes *float64       `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Exercises       []PlanExercise `bson:"exercises" json:"exercises"`
}

// PlanExercise is a single prescribed exercise. Numeric fields are nil when
// the generator did not supply a usable number.
type PlanExercise struct {
	Name        string   `bson:"name" json:"name"`
	Sets        *float64 `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        string   `bson:"reps,omitempty" json:"reps,omitempty"` // Free text: "8-10", "AMRAP in 60s"
	RestSeconds *float64 `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes       string   `bson:"notes,omitempty" json:"notes,omitempty"`
}
