// internal/domain/workcard.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkcardStatus tracks a workcard's checklist lifecycle. Submitted is terminal.
type WorkcardStatus string

const (
	WorkcardStatusPending   WorkcardStatus = "pending"
	WorkcardStatusSubmitted WorkcardStatus = "submitted"
)

// WorkcardExercise is copied from the plan at expansion time and never re-derived.
type WorkcardExercise struct {
	Name        string   `bson:"name" json:"name"`
	Sets        *float64 `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        string   `bson:"reps" json:"reps"`
	RestSeconds *float64 `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes       string   `bson:"notes" json:"notes"`
}

// Workcard is one day's checklist derived from a single plan generation.
// len(Checked) == len(Exercises) == TotalCount at all times.
type Workcard struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"ownerId" json:"ownerId"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	PlanName  string             `bson:"planName" json:"planName"` // Snapshot, not kept in sync with renames
	DayIndex  int                `bson:"dayIndex" json:"dayIndex"` // 1-based
	DayLabel  string             `bson:"dayLabel" json:"dayLabel"`
	Focus     []string           `bson:"focus" json:"focus"`
	Exercises []WorkcardExercise `bson:"exercises" json:"exercises"`

	Date    string `bson:"date,omitempty" json:"date,omitempty"`       // User supplied, e.g. "2024-05-01"
	Weekday string `bson:"weekday,omitempty" json:"weekday,omitempty"` // User supplied, e.g. "Wednesday"

	Checked        []bool         `bson:"checked" json:"checked"`
	CompletedCount int            `bson:"completedCount" json:"completedCount"`
	TotalCount     int            `bson:"totalCount" json:"totalCount"`
	Score          int            `bson:"score" json:"score"` // 0-100
	Status         WorkcardStatus `bson:"status" json:"status"`
	SubmittedAt    *time.Time     `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsSubmitted reports whether the card has reached its terminal state.
func (w *Workcard) IsSubmitted() bool {
	return w.Status == WorkcardStatusSubmitted
}

// HasSchedule reports whether both date and weekday are set.
func (w *Workcard) HasSchedule() bool {
	return w.Date != "" && w.Weekday != ""
}

// NormalizeChecked truncates or false-pads checked to exactly total entries.
func NormalizeChecked(checked []bool, total int) []bool {
	if total < 0 {
		total = 0
	}
	out := make([]bool, total)
	copy(out, checked)
	return out
}

// Recompute normalizes Checked against TotalCount and refreshes the derived counters.
func (w *Workcard) Recompute() {
	w.Checked = NormalizeChecked(w.Checked, w.TotalCount)
	c := CalculateCompletion(w.Checked, w.TotalCount)
	w.CompletedCount = c.CompletedCount
	w.Score = c.Score
}

// CheckedExerciseNames returns the names of exercises whose box is ticked.
func (w *Workcard) CheckedExerciseNames() []string {
	var names []string
	for i, ex := range w.Exercises {
		if i < len(w.Checked) && w.Checked[i] {
			names = append(names, ex.Name)
		}
	}
	return names
}
