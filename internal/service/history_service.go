package service

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"fmt"
	"strings"
)

// ManualSessionInput is a session logged without a workcard.
type ManualSessionInput struct {
	Exercises      []string
	SessionDate    string
	SessionWeekday string
}

// HistoryService reads the session history and records manual sessions.
type HistoryService interface {
	ListHistory(ctx context.Context, ownerID string) ([]domain.SessionRecord, error)
	RecordManualSession(ctx context.Context, ownerID string, input ManualSessionInput) (*domain.SessionRecord, error)
}

type historyService struct {
	historyRepo repository.SessionRecordRepository
}

// NewHistoryService creates a new instance of historyService.
func NewHistoryService(historyRepo repository.SessionRecordRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

func (s *historyService) ListHistory(ctx context.Context, ownerID string) ([]domain.SessionRecord, error) {
	return s.historyRepo.ListByOwner(ctx, ownerID)
}

func (s *historyService) RecordManualSession(ctx context.Context, ownerID string, input ManualSessionInput) (*domain.SessionRecord, error) {
	names := nonEmpty(input.Exercises)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no exercises provided", ErrValidationFailed)
	}

	record := &domain.SessionRecord{
		OwnerID:        ownerID,
		Source:         domain.SessionSourceManual,
		CompletedCount: len(names),
		TotalCount:     len(names),
		SessionDate:    strings.TrimSpace(input.SessionDate),
		SessionWeekday: strings.TrimSpace(input.SessionWeekday),
		Exercises:      names,
	}
	if _, err := s.historyRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return record, nil
}
