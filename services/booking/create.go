package booking

import (
	"context"
	"time"

	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"
	"neatly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request, prices it and persists a new booking
// in pending. A preferred cleaner, if supplied, is recorded as the offered
// cleaner but the booking stays pending until that cleaner accepts.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, in CreateBookingInput) (*models.Booking, error) {
	if actor.Role != models.RoleClient {
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "create a booking"}
	}

	if !utils.ValidUKPostcode(in.Address.Postcode) {
		return nil, NewValidationError("address.postcode", "malformed UK postcode")
	}
	startsAt, err := in.Schedule.StartsAt()
	if err != nil {
		return nil, NewValidationError("schedule", "date must be YYYY-MM-DD and time HH:MM")
	}
	if !startsAt.After(time.Now()) {
		return nil, NewValidationError("schedule", "booking must be scheduled in the future")
	}

	price, err := s.Pricing.Quote(in.ServiceType, in.DurationHours, in.Frequency)
	if err != nil {
		return nil, err
	}

	if in.PreferredCleanerID != "" {
		profile, err := s.ContractorRepo.GetByID(ctx, in.PreferredCleanerID)
		if err == contractorRepo.ErrNotFound {
			return nil, &NotFoundError{Kind: "cleaner", ID: in.PreferredCleanerID}
		}
		if err != nil {
			return nil, err
		}
		if profile.Suspended {
			return nil, NewValidationError("preferred_cleaner_id", "cleaner is not currently available")
		}
	}

	requirements := in.SpecialRequirements
	if len(requirements) == 0 {
		// Pre-populate from the client's saved preferences; purely a
		// convenience, never a constraint.
		if profile, err := s.ClientRepo.GetByID(ctx, actor.ID); err == nil {
			requirements = profile.SpecialRequirements
		}
	}

	frequency := in.Frequency
	if frequency == "" {
		frequency = models.FrequencyOneTime
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:                  uuid.New().String(),
		ClientID:            actor.ID,
		CleanerID:           in.PreferredCleanerID,
		Status:              models.StatusPending,
		ServiceType:         in.ServiceType,
		DurationHours:       in.DurationHours,
		Frequency:           frequency,
		SpecialRequirements: requirements,
		Schedule:            in.Schedule,
		Address:             in.Address,
		TotalPrice:          price,
		PaymentStatus:       models.PaymentPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.Logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("client_id", actor.ID),
		zap.String("service_type", string(in.ServiceType)),
		zap.Float64("total_price", price),
	)
	return booking, nil
}
