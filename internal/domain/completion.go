package domain

import "math"

// Completion is the derived progress of a checklist.
type Completion struct {
	CompletedCount int `json:"completedCount"`
	Score          int `json:"score"`
}

// CalculateCompletion counts ticked entries and converts them to a 0-100 score.
// Callers normalize checked to total entries first.
func CalculateCompletion(checked []bool, total int) Completion {
	completed := 0
	for _, c := range checked {
		if c {
			completed++
		}
	}
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(completed) / float64(total)))
	}
	return Completion{CompletedCount: completed, Score: score}
}
