package bookingRepo

import (
	"context"
	"errors"
	"time"

	"neatly/models"
)

// ErrNotFound is returned when no booking matches the given ID.
var ErrNotFound = errors.New("booking not found")

// ErrPreconditionFailed is returned when a conditional write matched no
// document: the booking either does not exist or is no longer in the state
// the write required. Callers re-read to classify the failure.
var ErrPreconditionFailed = errors.New("booking precondition failed")

// ListFilter narrows booking list queries.
type ListFilter struct {
	Status models.BookingStatus // empty means any
	Limit  int64                // 0 means repository default
}

// BookingRepository defines data access for bookings and per-cleaner job
// rejections. All state transitions are conditional writes keyed on the
// current status so concurrent actors serialize on the document.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListByClient returns a client's bookings, newest first.
	ListByClient(ctx context.Context, clientID string, f ListFilter) ([]models.Booking, error)
	// ListByCleaner returns bookings assigned to a cleaner, newest first.
	ListByCleaner(ctx context.Context, cleanerID string, f ListFilter) ([]models.Booking, error)
	// ListPendingUnassigned returns pending bookings with no cleaner,
	// optionally only those created before the cutoff.
	ListPendingUnassigned(ctx context.Context, createdBefore time.Time, limit int64) ([]models.Booking, error)

	// Confirm atomically assigns a cleaner to a pending booking whose
	// cleaner slot is empty or already offered to that cleaner, moving it
	// to confirmed. First writer wins; losers get ErrPreconditionFailed.
	Confirm(ctx context.Context, bookingID, cleanerID string) error
	// Unassign clears the cleaner from a pending booking so it stays
	// available to others. Conditional on status=pending and the cleaner
	// being the one currently offered.
	Unassign(ctx context.Context, bookingID, cleanerID string) error
	// MarkCancelled transitions to cancelled, conditional on the current
	// status being one of from.
	MarkCancelled(ctx context.Context, bookingID string, from []models.BookingStatus, by models.CancelledBy, reason string, refund float64) error
	// MarkCompleted transitions to completed, conditional on the current
	// status being one of from and the assigned cleaner matching.
	MarkCompleted(ctx context.Context, bookingID, cleanerID string, from []models.BookingStatus) error
	// SetRatingReview stores the client's rating on a completed booking.
	SetRatingReview(ctx context.Context, bookingID, clientID string, rating int, review string) error

	// ForceStatus unconditionally sets the status. Admin override path only.
	ForceStatus(ctx context.Context, bookingID string, status models.BookingStatus, notes string) error
	// Reassign replaces the assigned cleaner, conditional on the current
	// status being one of from. Admin override path only.
	Reassign(ctx context.Context, bookingID, newCleanerID string, from []models.BookingStatus) error
	// ForceComplete transitions to completed regardless of the assigned
	// cleaner's own action, conditional on the current status being one of
	// from. Admin override path only.
	ForceComplete(ctx context.Context, bookingID, notes string, from []models.BookingStatus) error

	// AddRejection records that a cleaner declined a booking offer.
	AddRejection(ctx context.Context, cleanerID, bookingID, reason string) error
	// HasRejected reports whether the cleaner previously declined the booking.
	HasRejected(ctx context.Context, cleanerID, bookingID string) (bool, error)
	// ClearRejection removes a prior rejection record (set when a cleaner
	// accepts a job they previously declined).
	ClearRejection(ctx context.Context, cleanerID, bookingID string) error
}
