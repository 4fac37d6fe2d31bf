package auditRepo

import (
	"context"
	"fmt"
	"time"

	"neatly/database"
	"neatly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository is the append-only trail for admin overrides. There are
// deliberately no update or delete methods: entries are forensic records.
type AuditRepository interface {
	Append(ctx context.Context, entry models.AuditEntry) (string, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.AuditEntry, error)
}

// MongoAuditRepo implements AuditRepository backed by MongoDB.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns an AuditRepository using the shared client.
func NewMongoAuditRepo() *MongoAuditRepo {
	return &MongoAuditRepo{coll: database.DB().Collection("audit_log")}
}

// Append inserts a new audit entry and returns its ID.
func (r *MongoAuditRepo) Append(ctx context.Context, entry models.AuditEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("error appending audit entry: %w", err)
	}
	return entry.ID, nil
}

// ListByBooking returns a booking's audit trail, oldest first.
func (r *MongoAuditRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding audit entries: %w", err)
	}
	return entries, nil
}
