package contractorRepo

import (
	"context"
	"errors"

	"neatly/models"
)

// ErrNotFound is returned when no contractor profile matches the given UID.
var ErrNotFound = errors.New("contractor profile not found")

// ContractorRepository defines data access for contractor profiles.
type ContractorRepository interface {
	// GetByID retrieves a contractor profile by its UID.
	GetByID(ctx context.Context, uid string) (*models.ContractorProfile, error)
	// Upsert creates or replaces a contractor profile.
	Upsert(ctx context.Context, profile *models.ContractorProfile) error
	// ListByService returns non-suspended contractors offering the service.
	ListByService(ctx context.Context, service models.ServiceType) ([]models.ContractorProfile, error)
	// IncrementTotalJobs bumps the completed-jobs counter by one.
	IncrementTotalJobs(ctx context.Context, uid string) error
	// ApplyRating folds a new 1-5 rating into the contractor's aggregate.
	ApplyRating(ctx context.Context, uid string, rating int) error
	// SetSuspended toggles the administrative suspension flag.
	SetSuspended(ctx context.Context, uid string, suspended bool) error
}
