// internal/repository/mongo/session_record_repo.go
package mongo

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionRecordCollectionName = "session_records"

// mongoSessionRecordRepository implements repository.SessionRecordRepository
type mongoSessionRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRecordRepository creates a new history repository.
func NewMongoSessionRecordRepository(db *mongo.Database) repository.SessionRecordRepository {
	return &mongoSessionRecordRepository{
		collection: db.Collection(sessionRecordCollectionName),
	}
}

// Create appends a history record. Records are never updated afterwards.
func (r *mongoSessionRecordRepository) Create(ctx context.Context, record *domain.SessionRecord) (primitive.ObjectID, error) {
	if record.OwnerID == "" || record.Source == "" {
		return primitive.NilObjectID, errors.New("session record requires ownerId and source")
	}
	record.ID = primitive.NewObjectID()
	if record.SavedAt.IsZero() {
		record.SavedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session record ID")
	}
	return insertedID, nil
}

// ListByOwner returns an owner's history, newest first.
func (r *mongoSessionRecordRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.SessionRecord, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

func (r *mongoSessionRecordRepository) find(ctx context.Context, filter bson.M) ([]domain.SessionRecord, error) {
	records := []domain.SessionRecord{}
	findOptions := options.Find().SetSort(bson.D{{Key: "savedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteForPlan removes history tagged with the plan or any of its workcards.
func (r *mongoSessionRecordRepository) DeleteForPlan(ctx context.Context, ownerID, planID string, workcardIDs []string) (int64, error) {
	or := bson.A{bson.M{"planId": planID}}
	if len(workcardIDs) > 0 {
		or = append(or, bson.M{"workcardId": bson.M{"$in": workcardIDs}})
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"ownerId": ownerID, "$or": or})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByWorkcard removes the history derived from a single workcard.
func (r *mongoSessionRecordRepository) DeleteByWorkcard(ctx context.Context, ownerID, workcardID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"ownerId": ownerID, "workcardId": workcardID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureSessionRecordIndexes creates necessary indexes. Call during startup.
func EnsureSessionRecordIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "savedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "workcardId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "planId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
