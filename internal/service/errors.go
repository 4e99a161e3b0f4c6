package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	ErrNotFound         = errors.New("not found")
	ErrPlanNotFound     = fmt.Errorf("workout plan %w", ErrNotFound)
	ErrWorkcardNotFound = fmt.Errorf("workcard %w", ErrNotFound)
	ErrProfileNotFound  = fmt.Errorf("profile %w", ErrNotFound)

	ErrPlanNotReady     = errors.New("generate the workout plan first")
	ErrAlreadySubmitted = errors.New("workcard already submitted")
	ErrMissingSchedule  = errors.New("date and day are required before submit")
	ErrValidationFailed = errors.New("validation failed")
)
