package generation

import (
	"encoding/json"
	"strings"
)

var levelGuidance = map[Level]string{
	LevelBeginner: `The user is a BEGINNER.
- Focus on learning basic movement patterns with lower volume and intensity.
- Keep exercises per session low (5-6), sets 2-3, reps 8-10.
- Repeat the same exercises across the week; vary order and rep scheme.
- Prefer machines and simple dumbbell or barbell work, and finish with a short cool-down.`,
	LevelIntermediate: `The user is INTERMEDIATE.
- Build muscle and strength with more variety: free weights, compound lifts and machines.
- Keep exercises per session moderate (6-8), sets 3-4, reps 8-12.`,
	LevelProfessional: `The user is ADVANCED/PROFESSIONAL.
- Use focused splits per muscle group with higher volume and intensity.
- Exercises per session 8-12, sets 4-5, reps 6-12 for hypertrophy or 1-5 for strength.
- Use tempo, supersets and RPE where appropriate, and plan progression and deloads.`,
}

// BuildPrompt renders the instruction sent to the collaborator. The profile
// must already be normalized.
func BuildPrompt(p Profile) string {
	level := NormalizeLevel(p.ExperienceLevel)
	profileJSON, _ := json.MarshalIndent(p, "", "  ")

	return strings.Join([]string{
		"You are an expert strength and conditioning coach.",
		"Create a personalized, realistic workout plan for this user.",
		"User experience level (normalized): " + strings.ToUpper(string(level)) + ".",
		levelGuidance[level],
		"",
		"Return JSON ONLY, no markdown and no commentary, with this exact top-level shape:",
		`{ "title": string, "summary": string, "days": Day[], "notes": string[] }`,
		`Day: { "day": string, "focus": string[], "durationMinutes": number, "exercises": Exercise[] }`,
		`Exercise: { "name": string, "sets": number, "reps": string, "restSeconds": number, "notes": string }`,
		"",
		"User profile (JSON):",
		string(profileJSON),
	}, "\n")
}
