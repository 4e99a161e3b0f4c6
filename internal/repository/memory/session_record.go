package memory

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionRecordRepository stores history records in memory.
type SessionRecordRepository struct {
	mu      sync.RWMutex
	records map[primitive.ObjectID]domain.SessionRecord
}

// NewSessionRecordRepository constructs an empty SessionRecordRepository.
func NewSessionRecordRepository() *SessionRecordRepository {
	return &SessionRecordRepository{records: make(map[primitive.ObjectID]domain.SessionRecord)}
}

var _ repository.SessionRecordRepository = (*SessionRecordRepository)(nil)

// Create implements repository.SessionRecordRepository.
func (r *SessionRecordRepository) Create(_ context.Context, record *domain.SessionRecord) (primitive.ObjectID, error) {
	if record.OwnerID == "" || record.Source == "" {
		return primitive.NilObjectID, errors.New("session record requires ownerId and source")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = primitive.NewObjectID()
	if record.SavedAt.IsZero() {
		record.SavedAt = time.Now().UTC()
	}
	stored := *record
	stored.Exercises = cloneSlice(record.Exercises)
	r.records[record.ID] = stored
	return record.ID, nil
}

// ListByOwner implements repository.SessionRecordRepository.
func (r *SessionRecordRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.SessionRecord, error) {
	return r.filter(func(rec domain.SessionRecord) bool { return rec.OwnerID == ownerID }), nil
}

func (r *SessionRecordRepository) filter(keep func(domain.SessionRecord) bool) []domain.SessionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.SessionRecord{}
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out
}

// DeleteForPlan implements repository.SessionRecordRepository.
func (r *SessionRecordRepository) DeleteForPlan(_ context.Context, ownerID, planID string, workcardIDs []string) (int64, error) {
	ids := toSet(workcardIDs)
	return r.deleteWhere(func(rec domain.SessionRecord) bool {
		if rec.OwnerID != ownerID {
			return false
		}
		_, viaCard := ids[rec.WorkcardID]
		return rec.PlanID == planID || (rec.WorkcardID != "" && viaCard)
	}), nil
}

// DeleteByWorkcard implements repository.SessionRecordRepository.
func (r *SessionRecordRepository) DeleteByWorkcard(_ context.Context, ownerID, workcardID string) (int64, error) {
	return r.deleteWhere(func(rec domain.SessionRecord) bool {
		return rec.OwnerID == ownerID && rec.WorkcardID == workcardID
	}), nil
}

func (r *SessionRecordRepository) deleteWhere(match func(domain.SessionRecord) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, rec := range r.records {
		if match(rec) {
			delete(r.records, id)
			n++
		}
	}
	return n
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
