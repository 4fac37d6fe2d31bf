package contractorRepo

import (
	"context"
	"fmt"
	"time"

	"neatly/database"
	"neatly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContractorRepo implements ContractorRepository backed by MongoDB.
type MongoContractorRepo struct {
	coll *mongo.Collection
}

// NewMongoContractorRepo returns a ContractorRepository using the shared client.
func NewMongoContractorRepo() *MongoContractorRepo {
	return &MongoContractorRepo{coll: database.DB().Collection("contractor_profiles")}
}

func (r *MongoContractorRepo) GetByID(ctx context.Context, uid string) (*models.ContractorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.ContractorProfile
	err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching contractor %s: %w", uid, err)
	}
	return &profile, nil
}

// Upsert patches the profile fields without replacing the document, so the
// system-maintained rating aggregates survive contractor edits.
func (r *MongoContractorRepo) Upsert(ctx context.Context, profile *models.ContractorProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{
		"name":             profile.Name,
		"bio":              profile.Bio,
		"postcode":         profile.Postcode,
		"hourly_rate":      profile.HourlyRate,
		"radius_miles":     profile.RadiusMiles,
		"services_offered": profile.ServicesOffered,
		"availability":     profile.Availability,
		"accepts_pets":     profile.AcceptsPets,
		"eco_friendly":     profile.EcoFriendly,
		"updated_at":       now,
	}
	if profile.FCMToken != "" {
		set["fcm_token"] = profile.FCMToken
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"uid": profile.UID, "created_at": now, "suspended": false},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"uid": profile.UID}, update, opts); err != nil {
		return fmt.Errorf("error upserting contractor %s: %w", profile.UID, err)
	}
	return nil
}

func (r *MongoContractorRepo) ListByService(ctx context.Context, service models.ServiceType) ([]models.ContractorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"services_offered": service,
		"suspended":        false,
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing contractors for %s: %w", service, err)
	}
	defer cursor.Close(ctx)

	var profiles []models.ContractorProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("error decoding contractors: %w", err)
	}
	return profiles, nil
}

func (r *MongoContractorRepo) IncrementTotalJobs(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"total_jobs": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"uid": uid}, update)
	if err != nil {
		return fmt.Errorf("error incrementing jobs for %s: %w", uid, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyRating folds a new rating into the stored sum/count aggregates and
// recomputes the derived average in a single pipeline update.
func (r *MongoContractorRepo) ApplyRating(ctx context.Context, uid string, rating int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating_sum", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$rating_sum", 0}}},
				rating,
			}}}},
			{Key: "rating_count", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$rating_count", 0}}},
				1,
			}}}},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$round", Value: bson.A{
				bson.D{{Key: "$divide", Value: bson.A{"$rating_sum", "$rating_count"}}},
				2,
			}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"uid": uid}, pipeline)
	if err != nil {
		return fmt.Errorf("error applying rating for %s: %w", uid, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoContractorRepo) SetSuspended(ctx context.Context, uid string, suspended bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"suspended": suspended, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"uid": uid}, update)
	if err != nil {
		return fmt.Errorf("error updating suspension for %s: %w", uid, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
