package bookingRepo

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

const defaultListLimit = 50

// MongoBookingRepo implements BookingRepository backed by MongoDB.
type MongoBookingRepo struct {
	coll          *mongo.Collection
	rejectionColl *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository using the shared client.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.DB()
	return &MongoBookingRepo{
		coll:          db.Collection("bookings"),
		rejectionColl: db.Collection("job_rejections"),
	}
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M, limit int64) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListByClient(ctx context.Context, clientID string, f ListFilter) ([]models.Booking, error) {
	filter := bson.M{"client_id": clientID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return r.list(ctx, filter, f.Limit)
}

func (r *MongoBookingRepo) ListByCleaner(ctx context.Context, cleanerID string, f ListFilter) ([]models.Booking, error) {
	filter := bson.M{"cleaner_id": cleanerID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return r.list(ctx, filter, f.Limit)
}

func (r *MongoBookingRepo) ListPendingUnassigned(ctx context.Context, createdBefore time.Time, limit int64) ([]models.Booking, error) {
	filter := bson.M{
		"status": models.StatusPending,
		"$or": bson.A{
			bson.M{"cleaner_id": ""},
			bson.M{"cleaner_id": bson.M{"$exists": false}},
		},
	}
	if !createdBefore.IsZero() {
		filter["created_at"] = bson.M{"$lt": createdBefore}
	}
	return r.list(ctx, filter, limit)
}

// conditionalUpdate runs a single UpdateOne and reports ErrPreconditionFailed
// when the filter matched nothing. This is the serialization primitive for
// all state transitions: the filter encodes the precondition and the store
// guarantees at most one writer observes it.
func (r *MongoBookingRepo) conditionalUpdate(ctx context.Context, filter, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("booking conditional update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPreconditionFailed
	}
	return nil
}

func statusIn(from []models.BookingStatus) bson.M {
	vals := make(bson.A, 0, len(from))
	for _, s := range from {
		vals = append(vals, s)
	}
	return bson.M{"$in": vals}
}

func (r *MongoBookingRepo) Confirm(ctx context.Context, bookingID, cleanerID string) error {
	filter := bson.M{
		"id":     bookingID,
		"status": models.StatusPending,
		"$or": bson.A{
			bson.M{"cleaner_id": ""},
			bson.M{"cleaner_id": bson.M{"$exists": false}},
			bson.M{"cleaner_id": cleanerID},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusConfirmed,
		"cleaner_id": cleanerID,
		"updated_at": time.Now().UTC(),
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *MongoBookingRepo) Unassign(ctx context.Context, bookingID, cleanerID string) error {
	filter := bson.M{
		"id":         bookingID,
		"status":     models.StatusPending,
		"cleaner_id": cleanerID,
	}
	update := bson.M{"$set": bson.M{
		"cleaner_id": "",
		"updated_at": time.Now().UTC(),
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *MongoBookingRepo) MarkCancelled(ctx context.Context, bookingID string, from []models.BookingStatus, by models.CancelledBy, reason string, refund float64) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":        models.StatusCancelled,
		"cancelled_by":  by,
		"cancel_reason": reason,
		"cancelled_at":  now,
		"updated_at":    now,
	}
	if refund > 0 {
		set["refund_amount"] = refund
		set["payment_status"] = models.PaymentRefunded
	}
	filter := bson.M{"id": bookingID, "status": statusIn(from)}
	return r.conditionalUpdate(ctx, filter, bson.M{"$set": set})
}

func (r *MongoBookingRepo) MarkCompleted(ctx context.Context, bookingID, cleanerID string, from []models.BookingStatus) error {
	now := time.Now().UTC()
	filter := bson.M{
		"id":         bookingID,
		"status":     statusIn(from),
		"cleaner_id": cleanerID,
	}
	update := bson.M{"$set": bson.M{
		"status":       models.StatusCompleted,
		"completed_at": now,
		"updated_at":   now,
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *MongoBookingRepo) SetRatingReview(ctx context.Context, bookingID, clientID string, rating int, review string) error {
	filter := bson.M{
		"id":        bookingID,
		"client_id": clientID,
		"status":    models.StatusCompleted,
		"rating":    bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"review":     review,
		"updated_at": time.Now().UTC(),
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *MongoBookingRepo) ForceStatus(ctx context.Context, bookingID string, status models.BookingStatus, notes string) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"admin_notes": notes,
		"updated_at":  now,
	}
	// Forcing into a terminal status still stamps the fields that the normal
	// transition would have set.
	switch status {
	case models.StatusCancelled:
		set["cancelled_at"] = now
		set["cancelled_by"] = models.CancelledByAdmin
	case models.StatusCompleted:
		set["completed_at"] = now
	}
	return r.conditionalUpdate(ctx, bson.M{"id": bookingID}, bson.M{"$set": set})
}

func (r *MongoBookingRepo) Reassign(ctx context.Context, bookingID, newCleanerID string, from []models.BookingStatus) error {
	filter := bson.M{"id": bookingID, "status": statusIn(from)}
	update := bson.M{"$set": bson.M{
		"cleaner_id": newCleanerID,
		"updated_at": time.Now().UTC(),
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *MongoBookingRepo) ForceComplete(ctx context.Context, bookingID, notes string, from []models.BookingStatus) error {
	now := time.Now().UTC()
	filter := bson.M{"id": bookingID, "status": statusIn(from)}
	update := bson.M{"$set": bson.M{
		"status":       models.StatusCompleted,
		"admin_notes":  notes,
		"completed_at": now,
		"updated_at":   now,
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

// rejectionKey namespaces job rejection docs per (cleaner, booking) pair.
func rejectionKey(cleanerID, bookingID string) string {
	return cleanerID + "_" + bookingID
}

func (r *MongoBookingRepo) AddRejection(ctx context.Context, cleanerID, bookingID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := bson.M{
		"key":         rejectionKey(cleanerID, bookingID),
		"cleaner_id":  cleanerID,
		"booking_id":  bookingID,
		"reason":      reason,
		"rejected_at": time.Now().UTC(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.rejectionColl.UpdateOne(ctx,
		bson.M{"key": rejectionKey(cleanerID, bookingID)},
		bson.M{"$setOnInsert": doc},
		opts,
	)
	if err != nil {
		return fmt.Errorf("error recording rejection: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) HasRejected(ctx context.Context, cleanerID, bookingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.rejectionColl.CountDocuments(ctx, bson.M{"key": rejectionKey(cleanerID, bookingID)})
	if err != nil {
		return false, fmt.Errorf("error checking rejection: %w", err)
	}
	return count > 0, nil
}

func (r *MongoBookingRepo) ClearRejection(ctx context.Context, cleanerID, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.rejectionColl.DeleteOne(ctx, bson.M{"key": rejectionKey(cleanerID, bookingID)}); err != nil {
		return fmt.Errorf("error clearing rejection: %w", err)
	}
	return nil
}
