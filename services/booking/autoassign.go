package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "neatly/database/repository/booking"
	"neatly/models"
	"neatly/services/notification"

	"go.uber.org/zap"
)

// AutoAssignStats summarizes one auto-assignment sweep.
type AutoAssignStats struct {
	Processed int `json:"processed"`
	Assigned  int `json:"assigned"`
	Failed    int `json:"failed"`
}

// AutoAssigner assigns stale pending bookings to the best available cleaner
// so jobs nobody picked up do not sit unclaimed forever.
type AutoAssigner struct {
	Repo          bookingRepo.BookingRepository
	Matcher       MatchingService
	Notifier      notification.Notifier
	Timeout       time.Duration
	MaxCandidates int
	Logger        *zap.Logger
}

// ProcessPendingJobs sweeps pending unassigned bookings older than the
// timeout and tries each ranked candidate in turn. Rejectors are skipped;
// a candidate who raced someone else just moves the loop on.
func (a *AutoAssigner) ProcessPendingJobs(ctx context.Context) (AutoAssignStats, error) {
	var stats AutoAssignStats

	cutoff := time.Now().UTC().Add(-a.Timeout)
	stale, err := a.Repo.ListPendingUnassigned(ctx, cutoff, 0)
	if err != nil {
		return stats, err
	}

	for _, b := range stale {
		stats.Processed++
		if a.assignOne(ctx, b) {
			stats.Assigned++
		} else {
			stats.Failed++
		}
	}
	a.Logger.Info("auto-assignment sweep complete",
		zap.Int("processed", stats.Processed),
		zap.Int("assigned", stats.Assigned),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (a *AutoAssigner) assignOne(ctx context.Context, b models.Booking) bool {
	candidates, err := a.Matcher.SearchCleaners(ctx, SearchQuery{
		Postcode:    b.Address.Postcode,
		ServiceType: b.ServiceType,
		Limit:       a.MaxCandidates,
	})
	if err != nil {
		a.Logger.Warn("auto-assign matching failed",
			zap.String("booking_id", b.ID), zap.Error(err))
		return false
	}

	for _, c := range candidates {
		rejected, err := a.Repo.HasRejected(ctx, c.UID, b.ID)
		if err != nil || rejected {
			continue
		}
		err = a.Repo.Confirm(ctx, b.ID, c.UID)
		if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
			// Someone claimed it while we were sweeping; nothing to do.
			return false
		}
		if err != nil {
			a.Logger.Warn("auto-assign write failed",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		a.Logger.Info("booking auto-assigned",
			zap.String("booking_id", b.ID),
			zap.String("cleaner_id", c.UID),
		)
		event := models.StatusChangedEvent{
			BookingID: b.ID,
			OldStatus: models.StatusPending,
			NewStatus: models.StatusConfirmed,
			Actor:     models.Actor{ID: "auto-assign", Role: models.RoleSystem},
			ClientID:  b.ClientID,
			CleanerID: c.UID,
			At:        time.Now().UTC(),
		}
		if a.Notifier != nil {
			if err := a.Notifier.BookingStatusChanged(ctx, event); err != nil {
				a.Logger.Warn("failed to emit auto-assign event", zap.Error(err))
			}
		}
		return true
	}
	return false
}
