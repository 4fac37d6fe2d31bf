package admin

import (
	"context"

	"neatly/models"
)

// OverrideService is the privileged gateway for state-violating operations.
// Every override requires a textual justification and leaves a record in the
// append-only audit trail.
type OverrideService interface {
	ForceStatus(ctx context.Context, actor models.Actor, bookingID string, newStatus models.BookingStatus, reason string) (*models.Booking, error)
	AdminCancel(ctx context.Context, actor models.Actor, bookingID, reason string, refundAmount *float64) (*models.Booking, error)
	ReassignCleaner(ctx context.Context, actor models.Actor, bookingID, newCleanerID, reason string) (*models.Booking, error)
	ForceComplete(ctx context.Context, actor models.Actor, bookingID, completionNotes string) (*models.Booking, error)
	AuditTrail(ctx context.Context, actor models.Actor, bookingID string) ([]models.AuditEntry, error)
	SetCleanerSuspended(ctx context.Context, actor models.Actor, cleanerID string, suspended bool, reason string) error
}
