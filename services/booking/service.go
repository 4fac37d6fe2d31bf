package booking

import (
	"context"

	bookingRepo "neatly/database/repository/booking"
	clientRepo "neatly/database/repository/client"
	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"
	"neatly/services/notification"

	"go.uber.org/zap"
)

// CreateBookingInput carries everything a client supplies when booking.
type CreateBookingInput struct {
	ServiceType         models.ServiceType `json:"service_type"`
	DurationHours       int                `json:"duration_hours"`
	Frequency           models.Frequency   `json:"frequency"`
	Schedule            models.Schedule    `json:"schedule"`
	Address             models.Address     `json:"address"`
	SpecialRequirements []string           `json:"special_requirements"`
	PreferredCleanerID  string             `json:"preferred_cleaner_id"`
}

// Service is the booking lifecycle manager. Every operation takes the
// explicit acting principal; authorization is decided here, not upstream.
type Service interface {
	CreateBooking(ctx context.Context, actor models.Actor, in CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, status models.BookingStatus, limit int64) ([]models.Booking, error)
	AvailableJobs(ctx context.Context, actor models.Actor, limit int64) ([]models.Booking, error)
	AcceptJob(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	RejectJob(ctx context.Context, actor models.Actor, bookingID, reason string) error
	CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error)
	CompleteJob(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	RateBooking(ctx context.Context, actor models.Actor, bookingID string, rating int, review string) error
}

// DefaultBookingService implements Service.
type DefaultBookingService struct {
	Repo           bookingRepo.BookingRepository
	ContractorRepo contractorRepo.ContractorRepository
	ClientRepo     clientRepo.ClientRepository
	Resolver       DistanceResolver
	Pricing        *PricingCalculator
	Notifier       notification.Notifier
	Logger         *zap.Logger
}

// notifyTransition fires the status-changed event after a successful
// transition. Failures are logged, never surfaced: delivery is the
// collaborator's problem.
func (s *DefaultBookingService) notifyTransition(ctx context.Context, b *models.Booking, old models.BookingStatus, actor models.Actor) {
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
		s.Logger.Warn("failed to emit status change event",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}
