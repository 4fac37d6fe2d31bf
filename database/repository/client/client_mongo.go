package clientRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neatly/database"
	"neatly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no client profile matches the given UID.
var ErrNotFound = errors.New("client profile not found")

// ClientRepository defines data access for client preference profiles.
type ClientRepository interface {
	GetByID(ctx context.Context, uid string) (*models.ClientProfile, error)
	Upsert(ctx context.Context, profile *models.ClientProfile) error
}

// MongoClientRepo implements ClientRepository backed by MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo returns a ClientRepository using the shared client.
func NewMongoClientRepo() *MongoClientRepo {
	return &MongoClientRepo{coll: database.DB().Collection("client_profiles")}
}

func (r *MongoClientRepo) GetByID(ctx context.Context, uid string) (*models.ClientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.ClientProfile
	err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching client profile %s: %w", uid, err)
	}
	return &profile, nil
}

func (r *MongoClientRepo) Upsert(ctx context.Context, profile *models.ClientProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{
		"preferred_services":     profile.PreferredServices,
		"preferred_times":        profile.PreferredTimes,
		"special_requirements":   profile.SpecialRequirements,
		"property_type":          profile.PropertyType,
		"property_size_bedrooms": profile.PropertySizeBedrooms,
		"has_pets":               profile.HasPets,
		"access_notes":           profile.AccessNotes,
		"updated_at":             now,
	}
	if profile.FCMToken != "" {
		set["fcm_token"] = profile.FCMToken
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"uid": profile.UID, "created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"uid": profile.UID}, update, opts); err != nil {
		return fmt.Errorf("error upserting client profile %s: %w", profile.UID, err)
	}
	return nil
}
