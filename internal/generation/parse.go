package generation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"alcyxob/workout-planner/internal/domain"
)

// FlexNumber accepts a JSON number or a numeric string. Anything else,
// including non-finite values, decodes to "absent".
type FlexNumber struct {
	Value *float64
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	n.Value = nil
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.set(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.set(f)
		}
	}
	return nil
}

func (n *FlexNumber) set(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	n.Value = &f
}

// FlexString accepts a JSON string or number and keeps it as trimmed text.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

type wirePlan struct {
	Title   FlexString   `json:"title"`
	Summary FlexString   `json:"summary"`
	Days    []wireDay    `json:"days"`
	Notes   []FlexString `json:"notes"`
}

type wireDay struct {
	Day             FlexString     `json:"day"`
	Focus           []FlexString   `json:"focus"`
	DurationMinutes FlexNumber     `json:"durationMinutes"`
	Exercises       []wireExercise `json:"exercises"`
}

type wireExercise struct {
	Name        FlexString `json:"name"`
	Sets        FlexNumber `json:"sets"`
	Reps        FlexString `json:"reps"`
	RestSeconds FlexNumber `json:"restSeconds"`
	Notes       FlexString `json:"notes"`
}

// ParsePlan reads the collaborator's text into validated plan content. Plain
// JSON is tried first; fenced or chatty responses fall back to the outermost
// JSON object found in the text.
func ParsePlan(text string) (*domain.PlanContent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, wrap("parse", ErrEmptyResponse)
	}

	var plan wirePlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		obj, ok := extractJSONObject(text)
		if !ok {
			return nil, wrap("parse", ErrUnparseable)
		}
		plan = wirePlan{}
		if err := json.Unmarshal([]byte(obj), &plan); err != nil {
			return nil, wrap("parse", ErrUnparseable)
		}
	}

	if len(plan.Days) == 0 {
		return nil, wrap("validate", ErrEmptyPlan)
	}
	return plan.toDomain(), nil
}

func extractJSONObject(text string) (string, bool) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}

func (p wirePlan) toDomain() *domain.PlanContent {
	content := &domain.PlanContent{
		Title:   string(p.Title),
		Summary: string(p.Summary),
		Days:    make([]domain.PlanDay, 0, len(p.Days)),
	}
	for _, n := range p.Notes {
		if n != "" {
			content.Notes = append(content.Notes, string(n))
		}
	}
	for _, d := range p.Days {
		day := domain.PlanDay{
			Day:             string(d.Day),
			DurationMinutes: d.DurationMinutes.Value,
			Exercises:       make([]domain.PlanExercise, 0, len(d.Exercises)),
		}
		for _, f := range d.Focus {
			if f != "" {
				day.Focus = append(day.Focus, string(f))
			}
		}
		for _, ex := range d.Exercises {
			day.Exercises = append(day.Exercises, domain.PlanExercise{
				Name:        string(ex.Name),
				Sets:        ex.Sets.Value,
				Reps:        string(ex.Reps),
				RestSeconds: ex.RestSeconds.Value,
				Notes:       string(ex.Notes),
			})
		}
		content.Days = append(content.Days, day)
	}
	return content
}
