package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"neatly/middleware"
	"neatly/models"
	"neatly/services/booking"
	"neatly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// errService returns a fixed error from every operation so the handler's
// status mapping can be asserted per error kind.
type errService struct {
	err error
}

func (s errService) CreateBooking(ctx context.Context, actor models.Actor, in booking.CreateBookingInput) (*models.Booking, error) {
	return nil, s.err
}

func (s errService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Booking{ID: bookingID, Status: models.StatusPending}, nil
}

func (s errService) ListBookings(ctx context.Context, actor models.Actor, status models.BookingStatus, limit int64) ([]models.Booking, error) {
	return nil, s.err
}

func (s errService) AvailableJobs(ctx context.Context, actor models.Actor, limit int64) ([]models.Booking, error) {
	return nil, s.err
}

func (s errService) AcceptJob(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return nil, s.err
}

func (s errService) RejectJob(ctx context.Context, actor models.Actor, bookingID, reason string) error {
	return s.err
}

func (s errService) CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	return nil, s.err
}

func (s errService) CompleteJob(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return nil, s.err
}

func (s errService) RateBooking(ctx context.Context, actor models.Actor, bookingID string, rating int, review string) error {
	return s.err
}

func newBookingRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookingHandler(svc, zap.NewNop())
	authed := r.Group("/api/bookings")
	authed.Use(middleware.JWTAuthMiddleware(""))
	authed.GET("/:id", h.GetBooking)
	authed.POST("/:id/cancel", h.CancelBooking)
	return r
}

func authedGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := utils.GenerateToken("client-1", "client", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorTaxonomyStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", booking.NewValidationError("f", "bad"), http.StatusBadRequest},
		{"authorization", &booking.AuthorizationError{ActorID: "x", Action: "look"}, http.StatusForbidden},
		{"not found", &booking.NotFoundError{Kind: "booking", ID: "bk-1"}, http.StatusNotFound},
		{"invalid state", &booking.InvalidStateError{BookingID: "bk-1", Current: "completed", Attempted: "cancel"}, http.StatusConflict},
		{"conflict", &booking.ConflictError{BookingID: "bk-1", Message: "taken"}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newBookingRouter(errService{err: tc.err})
			w := authedGet(t, r, "/api/bookings/bk-1")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestGetBookingOK(t *testing.T) {
	r := newBookingRouter(errService{})
	w := authedGet(t, r, "/api/bookings/bk-42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bk-42")
}

func TestCancelBookingAcceptsEmptyBody(t *testing.T) {
	r := newBookingRouter(errService{err: &booking.InvalidStateError{BookingID: "bk-1", Current: "completed", Attempted: "cancel"}})

	token, err := utils.GenerateToken("client-1", "client", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/bk-1/cancel", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
