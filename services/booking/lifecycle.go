package booking

import (
	"context"
	"errors"

	bookingRepo "neatly/database/repository/booking"
	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"

	"go.uber.org/zap"
)

// AcceptJob claims a pending booking for the calling cleaner. The repository
// write is conditional on the booking still being pending with the cleaner
// slot open, so concurrent accepts serialize: first writer wins, the rest
// get ConflictError.
func (s *DefaultBookingService) AcceptJob(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if actor.Role != models.RoleCleaner {
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "accept a job"}
	}
	profile, err := s.ContractorRepo.GetByID(ctx, actor.ID)
	if err == contractorRepo.ErrNotFound {
		return nil, &NotFoundError{Kind: "cleaner", ID: actor.ID}
	}
	if err != nil {
		return nil, err
	}
	if profile.Suspended {
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "accept a job while suspended"}
	}

	err = s.Repo.Confirm(ctx, bookingID, actor.ID)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		return nil, s.classifyAcceptFailure(ctx, actor, bookingID)
	}
	if err != nil {
		return nil, err
	}

	// Accepting clears any earlier rejection so the record reflects the
	// final decision.
	if err := s.Repo.ClearRejection(ctx, actor.ID, bookingID); err != nil {
		s.Logger.Warn("failed to clear rejection record", zap.Error(err))
	}

	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("job accepted",
		zap.String("booking_id", bookingID),
		zap.String("cleaner_id", actor.ID),
	)
	s.notifyTransition(ctx, booking, models.StatusPending, actor)
	return booking, nil
}

// classifyAcceptFailure re-reads the booking to turn a failed conditional
// write into the right taxonomy error.
func (s *DefaultBookingService) classifyAcceptFailure(ctx context.Context, actor models.Actor, bookingID string) error {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return &NotFoundError{Kind: "booking", ID: bookingID}
	}
	if err != nil {
		return err
	}
	// Another cleaner holds or won the booking: a race lost, retryable
	// against a fresh read.
	if booking.Assigned() && booking.CleanerID != actor.ID {
		return &ConflictError{BookingID: bookingID, Message: "another cleaner already accepted this job"}
	}
	return &InvalidStateError{BookingID: bookingID, Current: string(booking.Status), Attempted: "accept"}
}

// RejectJob declines a pending offer, leaving the booking available to
// others. Rejections are remembered so the job never reappears in this
// cleaner's feed.
func (s *DefaultBookingService) RejectJob(ctx context.Context, actor models.Actor, bookingID, reason string) error {
	if actor.Role != models.RoleCleaner {
		return &AuthorizationError{ActorID: actor.ID, Action: "reject a job"}
	}

	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return &NotFoundError{Kind: "booking", ID: bookingID}
	}
	if err != nil {
		return err
	}
	if booking.Status != models.StatusPending {
		return &InvalidStateError{BookingID: bookingID, Current: string(booking.Status), Attempted: "reject"}
	}
	if booking.Assigned() && booking.CleanerID != actor.ID {
		return &ConflictError{BookingID: bookingID, Message: "job already accepted by another cleaner"}
	}

	// Clear a directed offer so the booking goes back to the open pool.
	if booking.CleanerID == actor.ID {
		if err := s.Repo.Unassign(ctx, bookingID, actor.ID); err != nil && !errors.Is(err, bookingRepo.ErrPreconditionFailed) {
			return err
		}
	}
	if err := s.Repo.AddRejection(ctx, actor.ID, bookingID, reason); err != nil {
		return err
	}
	s.Logger.Info("job rejected",
		zap.String("booking_id", bookingID),
		zap.String("cleaner_id", actor.ID),
	)
	return nil
}

// cancellableStatuses are the states a normal cancellation may leave from.
var cancellableStatuses = []models.BookingStatus{
	models.StatusPending, models.StatusConfirmed, models.StatusInProgress,
}

// CancelBooking diverts a booking to cancelled. Clients may cancel their own
// bookings, cleaners their assigned ones, and the system its own sweeps.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, &NotFoundError{Kind: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, err
	}

	var by models.CancelledBy
	switch actor.Role {
	case models.RoleClient:
		if booking.ClientID != actor.ID {
			return nil, &AuthorizationError{ActorID: actor.ID, Action: "cancel another client's booking"}
		}
		by = models.CancelledByClient
	case models.RoleCleaner:
		if booking.CleanerID != actor.ID {
			return nil, &AuthorizationError{ActorID: actor.ID, Action: "cancel a booking not assigned to them"}
		}
		by = models.CancelledByCleaner
	case models.RoleSystem:
		by = models.CancelledBySystem
	default:
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "cancel this booking"}
	}

	if booking.Status.Terminal() {
		return nil, &InvalidStateError{BookingID: bookingID, Current: string(booking.Status), Attempted: "cancel"}
	}

	oldStatus := booking.Status
	err = s.Repo.MarkCancelled(ctx, bookingID, cancellableStatuses, by, reason, 0)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		// Raced with a concurrent transition; re-read decides the verdict.
		fresh, ferr := s.Repo.GetByID(ctx, bookingID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &InvalidStateError{BookingID: bookingID, Current: string(fresh.Status), Attempted: "cancel"}
	}
	if err != nil {
		return nil, err
	}

	booking, err = s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("cancelled_by", string(by)),
		zap.String("reason", reason),
	)
	s.notifyTransition(ctx, booking, oldStatus, actor)
	return booking, nil
}

// completableStatuses: completing from confirmed is treated as an implicit
// pass through in_progress.
var completableStatuses = []models.BookingStatus{
	models.StatusConfirmed, models.StatusInProgress,
}

// CompleteJob marks the booking done and credits the cleaner's job counter.
func (s *DefaultBookingService) CompleteJob(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if actor.Role != models.RoleCleaner {
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "complete a job"}
	}

	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, &NotFoundError{Kind: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, err
	}
	if booking.CleanerID != actor.ID {
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "complete a booking not assigned to them"}
	}

	oldStatus := booking.Status
	err = s.Repo.MarkCompleted(ctx, bookingID, actor.ID, completableStatuses)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		fresh, ferr := s.Repo.GetByID(ctx, bookingID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &InvalidStateError{BookingID: bookingID, Current: string(fresh.Status), Attempted: "complete"}
	}
	if err != nil {
		return nil, err
	}

	if err := s.ContractorRepo.IncrementTotalJobs(ctx, actor.ID); err != nil {
		s.Logger.Warn("failed to increment total jobs",
			zap.String("cleaner_id", actor.ID), zap.Error(err))
	}

	booking, err = s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("job completed",
		zap.String("booking_id", bookingID),
		zap.String("cleaner_id", actor.ID),
	)
	s.notifyTransition(ctx, booking, oldStatus, actor)
	return booking, nil
}

// RateBooking stores the client's rating on a completed booking and folds
// it into the cleaner's aggregate.
func (s *DefaultBookingService) RateBooking(ctx context.Context, actor models.Actor, bookingID string, rating int, review string) error {
	if actor.Role != models.RoleClient {
		return &AuthorizationError{ActorID: actor.ID, Action: "rate a booking"}
	}
	if rating < 1 || rating > 5 {
		return NewValidationError("rating", "rating must be between 1 and 5")
	}

	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return &NotFoundError{Kind: "booking", ID: bookingID}
	}
	if err != nil {
		return err
	}
	if booking.ClientID != actor.ID {
		return &AuthorizationError{ActorID: actor.ID, Action: "rate another client's booking"}
	}
	if booking.Status != models.StatusCompleted {
		return &InvalidStateError{BookingID: bookingID, Current: string(booking.Status), Attempted: "rate"}
	}

	err = s.Repo.SetRatingReview(ctx, bookingID, actor.ID, rating, review)
	if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
		return &InvalidStateError{BookingID: bookingID, Current: string(booking.Status), Attempted: "rate again"}
	}
	if err != nil {
		return err
	}

	if booking.CleanerID != "" {
		if err := s.ContractorRepo.ApplyRating(ctx, booking.CleanerID, rating); err != nil {
			s.Logger.Warn("failed to apply rating to contractor",
				zap.String("cleaner_id", booking.CleanerID), zap.Error(err))
		}
	}
	return nil
}
