package admin

import (
	"context"
	"errors"
	"fmt"

	auditRepo "neatly/database/repository/audit"
	bookingRepo "neatly/database/repository/booking"
	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"
	"neatly/services/booking"
	"neatly/services/notification"
	"neatly/services/payment"

	"go.uber.org/zap"
)

// DefaultOverrideService implements OverrideService.
type DefaultOverrideService struct {
	Bookings    bookingRepo.BookingRepository
	Contractors contractorRepo.ContractorRepository
	Audit       auditRepo.AuditRepository
	Notifier    notification.Notifier
	Refunds     payment.RefundEmitter
	Logger      *zap.Logger
}

// guard rejects non-admin actors and empty justifications up front.
func (s *DefaultOverrideService) guard(actor models.Actor, action, reason string) error {
	if !actor.IsAdmin() {
		return &booking.AuthorizationError{ActorID: actor.ID, Action: action}
	}
	if reason == "" {
		return booking.NewValidationError("reason", "a justification is required for admin overrides")
	}
	return nil
}

func (s *DefaultOverrideService) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, &booking.NotFoundError{Kind: "booking", ID: bookingID}
	}
	return b, err
}

// record appends to the audit trail. An override without its audit entry is
// worse than a failed override, so append errors fail the operation.
func (s *DefaultOverrideService) record(ctx context.Context, actor models.Actor, bookingID string, action models.AuditAction, reason, detail string) error {
	_, err := s.Audit.Append(ctx, models.AuditEntry{
		ActorID:   actor.ID,
		BookingID: bookingID,
		Action:    action,
		Reason:    reason,
		Detail:    detail,
	})
	if err != nil {
		s.Logger.Error("audit append failed",
			zap.String("booking_id", bookingID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
	return err
}

func (s *DefaultOverrideService) notify(ctx context.Context, b *models.Booking, old models.BookingStatus, actor models.Actor) {
	if old == b.Status {
		return
	}
	event := models.StatusChangedEvent{
		BookingID: b.ID,
		OldStatus: old,
		NewStatus: b.Status,
		Actor:     actor,
		ClientID:  b.ClientID,
		CleanerID: b.CleanerID,
		At:        b.UpdatedAt,
	}
	if err := s.Notifier.BookingStatusChanged(ctx, event); err != nil {
		s.Logger.Warn("failed to emit override event",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// ForceStatus sets any of the five statuses unconditionally, bypassing the
// normal transition graph. Manual dispute resolution only.
func (s *DefaultOverrideService) ForceStatus(ctx context.Context, actor models.Actor, bookingID string, newStatus models.BookingStatus, reason string) (*models.Booking, error) {
	if err := s.guard(actor, "force a booking status", reason); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, booking.NewValidationError("new_status", "unknown booking status "+string(newStatus))
	}

	before, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.Bookings.ForceStatus(ctx, bookingID, newStatus, reason); err != nil {
		return nil, err
	}
	detail := fmt.Sprintf("%s -> %s", before.Status, newStatus)
	if err := s.record(ctx, actor, bookingID, models.AuditForceStatus, reason, detail); err != nil {
		return nil, err
	}

	after, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("status forced",
		zap.String("booking_id", bookingID),
		zap.String("detail", detail),
		zap.String("admin_id", actor.ID),
	)
	s.notify(ctx, after, before.Status, actor)
	return after, nil
}

// AdminCancel cancels regardless of current status (except already
// cancelled). A refund amount, when given, must not exceed the total price;
// the refund itself is emitted to the payment collaborator.
func (s *DefaultOverrideService) AdminCancel(ctx context.Context, actor models.Actor, bookingID, reason string, refundAmount *float64) (*models.Booking, error) {
	if err := s.guard(actor, "cancel a booking as admin", reason); err != nil {
		return nil, err
	}

	before, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if before.Status == models.StatusCancelled {
		return nil, &booking.InvalidStateError{BookingID: bookingID, Current: string(before.Status), Attempted: "cancel"}
	}

	var refund float64
	if refundAmount != nil {
		refund = *refundAmount
		if refund < 0 || refund > before.TotalPrice {
			return nil, booking.NewValidationError("refund_amount",
				fmt.Sprintf("refund must be between 0 and the total price %.2f", before.TotalPrice))
		}
	}

	from := []models.BookingStatus{
		models.StatusPending, models.StatusConfirmed,
		models.StatusInProgress, models.StatusCompleted,
	}
	err = s.Bookings.MarkCancelled(ctx, bookingID, from, models.CancelledByAdmin, reason, refund)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		// Lost a race with another admin's cancellation.
		return nil, &booking.ConflictError{BookingID: bookingID, Message: "booking was cancelled concurrently"}
	}
	if err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("from %s, refund %.2f", before.Status, refund)
	if err := s.record(ctx, actor, bookingID, models.AuditAdminCancel, reason, detail); err != nil {
		return nil, err
	}

	if refund > 0 {
		req := models.RefundRequest{BookingID: bookingID, Amount: refund, Reason: reason}
		if err := s.Refunds.EmitRefund(ctx, req); err != nil {
			s.Logger.Error("failed to emit refund request",
				zap.String("booking_id", bookingID), zap.Error(err))
		}
	}

	after, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("booking cancelled by admin",
		zap.String("booking_id", bookingID),
		zap.String("admin_id", actor.ID),
		zap.Float64("refund", refund),
	)
	s.notify(ctx, after, before.Status, actor)
	return after, nil
}

// ReassignCleaner swaps the assigned cleaner while pending or confirmed.
// No matcher eligibility re-check: the admin is assumed to have vetted the
// replacement. Deliberate escape hatch.
func (s *DefaultOverrideService) ReassignCleaner(ctx context.Context, actor models.Actor, bookingID, newCleanerID, reason string) (*models.Booking, error) {
	if err := s.guard(actor, "reassign a cleaner", reason); err != nil {
		return nil, err
	}
	if newCleanerID == "" {
		return nil, booking.NewValidationError("new_cleaner_id", "a replacement cleaner is required")
	}
	if _, err := s.Contractors.GetByID(ctx, newCleanerID); err != nil {
		if errors.Is(err, contractorRepo.ErrNotFound) {
			return nil, &booking.NotFoundError{Kind: "cleaner", ID: newCleanerID}
		}
		return nil, err
	}

	before, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := []models.BookingStatus{models.StatusPending, models.StatusConfirmed}
	err = s.Bookings.Reassign(ctx, bookingID, newCleanerID, from)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		fresh, ferr := s.getBooking(ctx, bookingID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &booking.InvalidStateError{BookingID: bookingID, Current: string(fresh.Status), Attempted: "reassign"}
	}
	if err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("cleaner %s -> %s", before.CleanerID, newCleanerID)
	if err := s.record(ctx, actor, bookingID, models.AuditReassignCleaner, reason, detail); err != nil {
		return nil, err
	}

	after, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("cleaner reassigned",
		zap.String("booking_id", bookingID),
		zap.String("detail", detail),
		zap.String("admin_id", actor.ID),
	)
	return after, nil
}

// ForceComplete completes a confirmed or in-progress booking regardless of
// the assigned cleaner's own action. Notes are mandatory and stored on the
// booking as admin notes.
func (s *DefaultOverrideService) ForceComplete(ctx context.Context, actor models.Actor, bookingID, completionNotes string) (*models.Booking, error) {
	if err := s.guard(actor, "force-complete a booking", completionNotes); err != nil {
		return nil, err
	}

	before, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := []models.BookingStatus{models.StatusConfirmed, models.StatusInProgress}
	err = s.Bookings.ForceComplete(ctx, bookingID, completionNotes, from)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		fresh, ferr := s.getBooking(ctx, bookingID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &booking.InvalidStateError{BookingID: bookingID, Current: string(fresh.Status), Attempted: "force-complete"}
	}
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, actor, bookingID, models.AuditForceComplete, completionNotes, "from "+string(before.Status)); err != nil {
		return nil, err
	}

	if before.CleanerID != "" {
		if err := s.Contractors.IncrementTotalJobs(ctx, before.CleanerID); err != nil {
			s.Logger.Warn("failed to increment total jobs on force-complete",
				zap.String("cleaner_id", before.CleanerID), zap.Error(err))
		}
	}

	after, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("booking force-completed",
		zap.String("booking_id", bookingID),
		zap.String("admin_id", actor.ID),
	)
	s.notify(ctx, after, before.Status, actor)
	return after, nil
}

// AuditTrail returns the booking's override history.
func (s *DefaultOverrideService) AuditTrail(ctx context.Context, actor models.Actor, bookingID string) ([]models.AuditEntry, error) {
	if !actor.IsAdmin() {
		return nil, &booking.AuthorizationError{ActorID: actor.ID, Action: "read the audit trail"}
	}
	return s.Audit.ListByBooking(ctx, bookingID)
}

// SetCleanerSuspended toggles a contractor's suspension flag. Suspended
// cleaners disappear from matching and cannot accept jobs.
func (s *DefaultOverrideService) SetCleanerSuspended(ctx context.Context, actor models.Actor, cleanerID string, suspended bool, reason string) error {
	if err := s.guard(actor, "suspend a cleaner", reason); err != nil {
		return err
	}
	err := s.Contractors.SetSuspended(ctx, cleanerID, suspended)
	if errors.Is(err, contractorRepo.ErrNotFound) {
		return &booking.NotFoundError{Kind: "cleaner", ID: cleanerID}
	}
	return err
}
