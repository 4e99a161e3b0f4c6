package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the collaborator answered with no text.
	ErrEmptyResponse = errors.New("empty generation response")
	// ErrUnparseable is returned when no JSON object could be read from the response.
	ErrUnparseable = errors.New("generation response was not valid JSON")
	// ErrEmptyPlan is returned when the parsed plan has no days.
	ErrEmptyPlan = errors.New("plan must include at least one day")
)

// GenerationError wraps every failure of a generation attempt: transport,
// upstream status, parsing and shape validation alike.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	return &GenerationError{Op: op, Err: err}
}

// UpstreamStatusError is a non-2xx reply from the collaborator.
type UpstreamStatusError struct {
	Status int
	Body   string
}

func (e *UpstreamStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation service responded with status %d", e.Status)
	}
	return fmt.Sprintf("generation service responded with status %d: %s", e.Status, e.Body)
}
