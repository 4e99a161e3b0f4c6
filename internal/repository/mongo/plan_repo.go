// internal/repository/mongo/plan_repo.go
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

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new WorkoutPlan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == "" || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and name")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Status == "" {
		plan.Status = domain.PlanStatusDraft
	}
	if plan.TargetMuscles == nil {
		plan.TargetMuscles = []string{}
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan, scoped to its owner.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByOwner retrieves all plans of one owner, most recently touched first.
func (r *mongoPlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutPlan, error) {
	plans := []domain.WorkoutPlan{}
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SetStatus updates status and lastError only; generatedContent is never touched here.
func (r *mongoPlanRepository) SetStatus(ctx context.Context, id primitive.ObjectID, ownerID string, status domain.PlanStatus, lastError string) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"lastError": lastError,
			"updatedAt": time.Now().UTC(),
		},
	}
	return r.updateOne(ctx, id, ownerID, update)
}

// SetGenerated replaces the generated content and settles the plan in ready.
func (r *mongoPlanRepository) SetGenerated(ctx context.Context, id primitive.ObjectID, ownerID string, content *domain.PlanContent, transcriptKey string) error {
	if content == nil {
		return errors.New("generated content is required")
	}
	set := bson.M{
		"status":           domain.PlanStatusReady,
		"generatedContent": content,
		"lastError":        "",
		"updatedAt":        time.Now().UTC(),
	}
	if transcriptKey != "" {
		set["lastTranscriptKey"] = transcriptKey
	}
	return r.updateOne(ctx, id, ownerID, bson.M{"$set": set})
}

func (r *mongoPlanRepository) updateOne(ctx context.Context, id primitive.ObjectID, ownerID string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "ownerId": ownerID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the plan document only. Derived data is the caller's job.
func (r *mongoPlanRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	if id == primitive.NilObjectID || ownerID == "" {
		return errors.New("plan ID and owner ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Listing a user's plans, newest activity first
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
