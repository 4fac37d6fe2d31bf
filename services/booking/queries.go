package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "neatly/database/repository/booking"
	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"
)

// GetBooking fetches a booking with role-scoped access: clients see their
// own, cleaners the ones assigned or offered to them, admins everything.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, &NotFoundError{Kind: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin, models.RoleSystem:
		return booking, nil
	case models.RoleClient:
		if booking.ClientID != actor.ID {
			return nil, &AuthorizationError{ActorID: actor.ID, Action: "view another client's booking"}
		}
	case models.RoleCleaner:
		if booking.CleanerID != actor.ID {
			return nil, &AuthorizationError{ActorID: actor.ID, Action: "view a booking not assigned to them"}
		}
	default:
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "view this booking"}
	}
	return booking, nil
}

// ListBookings returns the actor's bookings, optionally filtered by status.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor models.Actor, status models.BookingStatus, limit int64) ([]models.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, NewValidationError("status", "unknown booking status "+string(status))
	}
	f := bookingRepo.ListFilter{Status: status, Limit: limit}
	switch actor.Role {
	case models.RoleClient:
		return s.Repo.ListByClient(ctx, actor.ID, f)
	case models.RoleCleaner:
		return s.Repo.ListByCleaner(ctx, actor.ID, f)
	default:
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "list bookings"}
	}
}

// AvailableJobs returns open pending bookings the cleaner could take:
// service covered, within travel radius, not previously rejected by them.
func (s *DefaultBookingService) AvailableJobs(ctx context.Context, actor models.Actor, limit int64) ([]models.Booking, error) {
	if actor.Role != models.RoleCleaner {
		return nil, &AuthorizationError{ActorID: actor.ID, Action: "browse available jobs"}
	}
	profile, err := s.ContractorRepo.GetByID(ctx, actor.ID)
	if errors.Is(err, contractorRepo.ErrNotFound) {
		return nil, &NotFoundError{Kind: "cleaner", ID: actor.ID}
	}
	if err != nil {
		return nil, err
	}
	if profile.Suspended {
		return []models.Booking{}, nil
	}

	pending, err := s.Repo.ListPendingUnassigned(ctx, time.Time{}, limit)
	if err != nil {
		return nil, err
	}

	jobs := []models.Booking{}
	for _, b := range pending {
		if !profile.Offers(b.ServiceType) {
			continue
		}
		if s.Resolver != nil && profile.RadiusMiles > 0 {
			dist, derr := s.Resolver.Distance(profile.Postcode, b.Address.Postcode)
			if derr != nil || dist > profile.RadiusMiles {
				continue
			}
		}
		rejected, rerr := s.Repo.HasRejected(ctx, actor.ID, b.ID)
		if rerr != nil {
			return nil, rerr
		}
		if rejected {
			continue
		}
		jobs = append(jobs, b)
	}
	return jobs, nil
}
