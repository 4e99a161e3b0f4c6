// internal/domain/session_record.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionSource records where a history entry came from.
type SessionSource string

const (
	SessionSourceManual   SessionSource = "manual"
	SessionSourceWorkcard SessionSource = "workcard"
)

// NoExercisesCompleted is stored when a workcard is submitted with nothing ticked.
const NoExercisesCompleted = "No exercises completed"

// SessionRecord is an immutable history entry. PlanID and WorkcardID are
// opaque hex strings, not live references; readers join explicitly by id.
type SessionRecord struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID         string             `bson:"ownerId" json:"ownerId"`
	Source          SessionSource      `bson:"source" json:"source"`
	PlanID          string             `bson:"planId,omitempty" json:"planId,omitempty"`
	WorkcardID      string             `bson:"workcardId,omitempty" json:"workcardId,omitempty"`
	DayLabel        string             `bson:"dayLabel,omitempty" json:"dayLabel,omitempty"`
	CompletionScore int                `bson:"completionScore" json:"completionScore"`
	CompletedCount  int                `bson:"completedCount" json:"completedCount"`
	TotalCount      int                `bson:"totalCount" json:"totalCount"`
	SessionDate     string             `bson:"sessionDate,omitempty" json:"sessionDate,omitempty"`
	SessionWeekday  string             `bson:"sessionWeekday,omitempty" json:"sessionWeekday,omitempty"`
	Exercises       []string           `bson:"exercises" json:"exercises"`
	SavedAt         time.Time          `bson:"savedAt" json:"savedAt"`
}
