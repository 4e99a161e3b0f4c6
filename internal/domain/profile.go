package domain

import "time"

// Profile holds a user's onboarding answers. One per owner.
type Profile struct {
	OwnerID            string    `bson:"ownerId" json:"ownerId"`
	Email              string    `bson:"email,omitempty" json:"email"`
	FitnessLevel       string    `bson:"fitnessLevel,omitempty" json:"fitnessLevel"`
	TargetMuscles      []string  `bson:"targetMuscles" json:"targetMuscles"`
	Frequency          *int      `bson:"frequency,omitempty" json:"frequency"`
	SessionDuration    *int      `bson:"sessionDuration,omitempty" json:"sessionDuration"`
	Preferences        string    `bson:"preferences,omitempty" json:"preferences"`
	OnboardingComplete bool      `bson:"onboardingComplete" json:"onboardingComplete"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt,omitempty"`
}
