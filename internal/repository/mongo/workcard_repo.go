// internal/repository/mongo/workcard_repo.go
package mongo

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workcardCollectionName = "workcards"

// mongoWorkcardRepository implements repository.WorkcardRepository
type mongoWorkcardRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkcardRepository creates a new Workcard repository.
func NewMongoWorkcardRepository(db *mongo.Database) repository.WorkcardRepository {
	return &mongoWorkcardRepository{
		collection: db.Collection(workcardCollectionName),
	}
}

// CreateMany inserts a batch of workcards in one round trip.
func (r *mongoWorkcardRepository) CreateMany(ctx context.Context, cards []domain.Workcard) ([]domain.Workcard, error) {
	if len(cards) == 0 {
		return []domain.Workcard{}, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(cards))
	for i := range cards {
		if cards[i].OwnerID == "" || cards[i].PlanID == primitive.NilObjectID {
			return nil, errors.New("workcard requires ownerId and planId")
		}
		cards[i].ID = primitive.NewObjectID()
		cards[i].CreatedAt = now
		cards[i].UpdatedAt = now
		if cards[i].Status == "" {
			cards[i].Status = domain.WorkcardStatusPending
		}
		docs[i] = cards[i]
	}

	// Ordered insert: on failure the prefix that made it in stays, like any other partial write here.
	// A concurrent expansion of the same plan trips the unique day index.
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("insert workcards: %w", err)
	}
	return cards, nil
}

// GetByID retrieves a single workcard, scoped to its owner.
func (r *mongoWorkcardRepository) GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.Workcard, error) {
	var card domain.Workcard
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "ownerId": ownerID}).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

// List retrieves an owner's workcards. "pending" sorts before "submitted" lexically.
func (r *mongoWorkcardRepository) List(ctx context.Context, ownerID string, filter repository.WorkcardFilter) ([]domain.Workcard, error) {
	query := bson.M{"ownerId": ownerID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PlanID != primitive.NilObjectID {
		query["planId"] = filter.PlanID
	}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "status", Value: 1},
		{Key: "dayIndex", Value: 1},
		{Key: "createdAt", Value: -1},
	})
	return r.find(ctx, query, findOptions)
}

// ListByPlan retrieves the workcards expanded from one plan, in day order.
func (r *mongoWorkcardRepository) ListByPlan(ctx context.Context, ownerID string, planID primitive.ObjectID) ([]domain.Workcard, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "dayIndex", Value: 1}})
	return r.find(ctx, bson.M{"ownerId": ownerID, "planId": planID}, findOptions)
}

func (r *mongoWorkcardRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]domain.Workcard, error) {
	cards := []domain.Workcard{}
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// UpdateProgress writes the mutable checklist fields back.
func (r *mongoWorkcardRepository) UpdateProgress(ctx context.Context, card *domain.Workcard) error {
	card.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"date":           card.Date,
			"weekday":        card.Weekday,
			"checked":        card.Checked,
			"completedCount": card.CompletedCount,
			"score":          card.Score,
			"updatedAt":      card.UpdatedAt,
		},
	}
	return r.updateOne(ctx, card.ID, card.OwnerID, update)
}

// MarkSubmitted writes the terminal state.
func (r *mongoWorkcardRepository) MarkSubmitted(ctx context.Context, card *domain.Workcard) error {
	if card.SubmittedAt == nil {
		return errors.New("submittedAt is required to mark a workcard submitted")
	}
	card.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":         domain.WorkcardStatusSubmitted,
			"submittedAt":    card.SubmittedAt,
			"checked":        card.Checked,
			"completedCount": card.CompletedCount,
			"score":          card.Score,
			"updatedAt":      card.UpdatedAt,
		},
	}
	return r.updateOne(ctx, card.ID, card.OwnerID, update)
}

func (r *mongoWorkcardRepository) updateOne(ctx context.Context, id primitive.ObjectID, ownerID string, update bson.M) error {
	if id == primitive.NilObjectID {
		return errors.New("workcard ID is required for update")
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "ownerId": ownerID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes one workcard.
func (r *mongoWorkcardRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlan removes every workcard expanded from planID.
func (r *mongoWorkcardRepository) DeleteByPlan(ctx context.Context, ownerID string, planID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"ownerId": ownerID, "planId": planID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureWorkcardIndexes creates necessary indexes. Call during startup.
func EnsureWorkcardIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One card per plan day; also serves the reuse check and cascade collection
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "planId", Value: 1}, {Key: "dayIndex", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ownerId_planId_dayIndex_unique"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
