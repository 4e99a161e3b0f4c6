package mongo

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements the repository.ProfileRepository interface using MongoDB.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// GetByOwner retrieves the onboarding profile of one user.
func (r *mongoProfileRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the owner's profile.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	if profile.OwnerID == "" {
		return errors.New("profile requires ownerId")
	}
	profile.UpdatedAt = time.Now().UTC()
	if profile.TargetMuscles == nil {
		profile.TargetMuscles = []string{}
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"ownerId": profile.OwnerID}, profile, opts)
	return err
}

// EnsureProfileIndexes creates necessary indexes for the profiles collection.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
