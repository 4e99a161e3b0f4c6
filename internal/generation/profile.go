package generation

import "strings"

// Level is a normalized experience level.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelProfessional Level = "professional"
)

// NormalizeLevel maps free-form input onto one of the three known levels by
// prefix. Missing or unrecognized input is treated as beginner.
func NormalizeLevel(raw string) Level {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "beg"):
		return LevelBeginner
	case strings.HasPrefix(s, "int"):
		return LevelIntermediate
	case strings.HasPrefix(s, "pro"), strings.HasPrefix(s, "adv"):
		return LevelProfessional
	default:
		return LevelBeginner
	}
}

// Profile is the generation input built from a plan's target parameters.
type Profile struct {
	ExperienceLevel string   `json:"experienceLevel"`
	TargetMuscles   []string `json:"targetMuscles"`
	Frequency       *int     `json:"frequency,omitempty"`       // Days per week
	SessionDuration *int     `json:"sessionDuration,omitempty"` // Minutes
	Preferences     string   `json:"preferences,omitempty"`
}

// Normalized returns a copy with the experience level normalized and muscle tags cleaned.
func (p Profile) Normalized() Profile {
	out := p
	out.ExperienceLevel = string(NormalizeLevel(p.ExperienceLevel))
	out.TargetMuscles = NormalizeTags(p.TargetMuscles)
	out.Preferences = strings.TrimSpace(p.Preferences)
	return out
}

// NormalizeTags trims every tag and drops the empty ones.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}
