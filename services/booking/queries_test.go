package booking

import (
	"context"
	"testing"

	"neatly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBookingRoleScoping(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	seeded := env.seedBooking("bk-1", "client-1", models.StatusConfirmed)
	seeded.CleanerID = "cleaner-1"
	env.repo.Create(ctx, seeded)

	// Owner sees it.
	b, err := env.svc.GetBooking(ctx, models.Actor{ID: "client-1", Role: models.RoleClient}, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", b.ID)

	// The assigned cleaner sees it.
	_, err = env.svc.GetBooking(ctx, models.Actor{ID: "cleaner-1", Role: models.RoleCleaner}, "bk-1")
	assert.NoError(t, err)

	// Admins see everything.
	_, err = env.svc.GetBooking(ctx, models.Actor{ID: "admin-1", Role: models.RoleAdmin}, "bk-1")
	assert.NoError(t, err)

	// Strangers of either role do not.
	_, err = env.svc.GetBooking(ctx, models.Actor{ID: "client-2", Role: models.RoleClient}, "bk-1")
	assert.ErrorAs(t, err, new(*AuthorizationError))
	_, err = env.svc.GetBooking(ctx, models.Actor{ID: "cleaner-2", Role: models.RoleCleaner}, "bk-1")
	assert.ErrorAs(t, err, new(*AuthorizationError))

	_, err = env.svc.GetBooking(ctx, models.Actor{ID: "client-1", Role: models.RoleClient}, "missing")
	assert.ErrorAs(t, err, new(*NotFoundError))
}

func TestListBookingsByRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedBooking("bk-1", "client-1", models.StatusPending)
	env.seedBooking("bk-2", "client-1", models.StatusCancelled)
	env.seedBooking("bk-3", "client-2", models.StatusPending)
	assigned := env.seedBooking("bk-4", "client-2", models.StatusConfirmed)
	assigned.CleanerID = "cleaner-1"
	env.repo.Create(ctx, assigned)

	mine, err := env.svc.ListBookings(ctx, models.Actor{ID: "client-1", Role: models.RoleClient}, "", 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pendingOnly, err := env.svc.ListBookings(ctx, models.Actor{ID: "client-1", Role: models.RoleClient}, models.StatusPending, 0)
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	assert.Equal(t, "bk-1", pendingOnly[0].ID)

	jobs, err := env.svc.ListBookings(ctx, models.Actor{ID: "cleaner-1", Role: models.RoleCleaner}, "", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "bk-4", jobs[0].ID)

	_, err = env.svc.ListBookings(ctx, models.Actor{ID: "client-1", Role: models.RoleClient}, "archived", 0)
	assert.ErrorAs(t, err, new(*ValidationError))
}

func TestAvailableJobsFiltering(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addCleaner("cleaner-1", models.ServiceRegular)
	cleaner := models.Actor{ID: "cleaner-1", Role: models.RoleCleaner}

	env.seedBooking("bk-regular", "client-1", models.StatusPending)
	deep := env.seedBooking("bk-deep", "client-1", models.StatusPending)
	deep.ServiceType = models.ServiceDeep
	env.repo.Create(ctx, deep)
	taken := env.seedBooking("bk-taken", "client-1", models.StatusConfirmed)
	taken.CleanerID = "someone-else"
	env.repo.Create(ctx, taken)

	jobs, err := env.svc.AvailableJobs(ctx, cleaner, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "bk-regular", jobs[0].ID)

	// Suspended cleaners get an empty feed, not an error.
	env.contractors.SetSuspended(ctx, "cleaner-1", true)
	jobs, err = env.svc.AvailableJobs(ctx, cleaner, 0)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// Clients cannot browse the feed.
	_, err = env.svc.AvailableJobs(ctx, models.Actor{ID: "client-1", Role: models.RoleClient}, 0)
	assert.ErrorAs(t, err, new(*AuthorizationError))
}
