package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "neatly/database/repository/booking"
	clientRepo "neatly/database/repository/client"
	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"

	"go.uber.org/zap"
)

// memBookingRepo is an in-memory BookingRepository with the same
// conditional-write semantics as the Mongo implementation.
type memBookingRepo struct {
	mu         sync.Mutex
	bookings   map[string]*models.Booking
	rejections map[string]string // cleanerID_bookingID -> reason
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		bookings:   make(map[string]*models.Booking),
		rejections: make(map[string]string),
	}
}

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) list(match func(*models.Booking) bool, f bookingRepo.ListFilter) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if !match(b) {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (r *memBookingRepo) ListByClient(ctx context.Context, clientID string, f bookingRepo.ListFilter) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.ClientID == clientID }, f), nil
}

func (r *memBookingRepo) ListByCleaner(ctx context.Context, cleanerID string, f bookingRepo.ListFilter) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.CleanerID == cleanerID }, f), nil
}

func (r *memBookingRepo) ListPendingUnassigned(ctx context.Context, createdBefore time.Time, limit int64) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool {
		if b.Status != models.StatusPending || b.CleanerID != "" {
			return false
		}
		return createdBefore.IsZero() || b.CreatedAt.Before(createdBefore)
	}, bookingRepo.ListFilter{Limit: limit}), nil
}

func (r *memBookingRepo) Confirm(ctx context.Context, bookingID, cleanerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.StatusPending || (b.CleanerID != "" && b.CleanerID != cleanerID) {
		return bookingRepo.ErrPreconditionFailed
	}
	b.CleanerID = cleanerID
	b.Status = models.StatusConfirmed
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memBookingRepo) Unassign(ctx context.Context, bookingID, cleanerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.StatusPending || b.CleanerID != cleanerID {
		return bookingRepo.ErrPreconditionFailed
	}
	b.CleanerID = ""
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func statusOneOf(s models.BookingStatus, from []models.BookingStatus) bool {
	for _, f := range from {
		if s == f {
			return true
		}
	}
	return false
}

func (r *memBookingRepo) MarkCancelled(ctx context.Context, bookingID string, from []models.BookingStatus, by models.CancelledBy, reason string, refund float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || !statusOneOf(b.Status, from) {
		return bookingRepo.ErrPreconditionFailed
	}
	now := time.Now().UTC()
	b.Status = models.StatusCancelled
	b.CancelledBy = by
	b.CancelReason = reason
	b.RefundAmount = refund
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

func (r *memBookingRepo) MarkCompleted(ctx context.Context, bookingID, cleanerID string, from []models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || !statusOneOf(b.Status, from) || b.CleanerID != cleanerID {
		return bookingRepo.ErrPreconditionFailed
	}
	now := time.Now().UTC()
	b.Status = models.StatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	return nil
}

func (r *memBookingRepo) SetRatingReview(ctx context.Context, bookingID, clientID string, rating int, review string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.ClientID != clientID || b.Status != models.StatusCompleted || b.Rating != 0 {
		return bookingRepo.ErrPreconditionFailed
	}
	b.Rating = rating
	b.Review = review
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memBookingRepo) ForceStatus(ctx context.Context, bookingID string, status models.BookingStatus, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	now := time.Now().UTC()
	b.Status = status
	b.AdminNotes = notes
	b.UpdatedAt = now
	switch status {
	case models.StatusCancelled:
		b.CancelledAt = &now
		b.CancelledBy = models.CancelledByAdmin
	case models.StatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}

func (r *memBookingRepo) Reassign(ctx context.Context, bookingID, newCleanerID string, from []models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || !statusOneOf(b.Status, from) {
		return bookingRepo.ErrPreconditionFailed
	}
	b.CleanerID = newCleanerID
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memBookingRepo) ForceComplete(ctx context.Context, bookingID, notes string, from []models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || !statusOneOf(b.Status, from) {
		return bookingRepo.ErrPreconditionFailed
	}
	now := time.Now().UTC()
	b.Status = models.StatusCompleted
	b.AdminNotes = notes
	b.CompletedAt = &now
	b.UpdatedAt = now
	return nil
}

func (r *memBookingRepo) AddRejection(ctx context.Context, cleanerID, bookingID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections[cleanerID+"_"+bookingID] = reason
	return nil
}

func (r *memBookingRepo) HasRejected(ctx context.Context, cleanerID, bookingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rejections[cleanerID+"_"+bookingID]
	return ok, nil
}

func (r *memBookingRepo) ClearRejection(ctx context.Context, cleanerID, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rejections, cleanerID+"_"+bookingID)
	return nil
}

// memContractorRepo is an in-memory ContractorRepository.
type memContractorRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.ContractorProfile
	jobs     map[string]int
	ratings  map[string][]int
}

func newMemContractorRepo() *memContractorRepo {
	return &memContractorRepo{
		profiles: make(map[string]*models.ContractorProfile),
		jobs:     make(map[string]int),
		ratings:  make(map[string][]int),
	}
}

func (r *memContractorRepo) GetByID(ctx context.Context, uid string) (*models.ContractorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	if !ok {
		return nil, contractorRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memContractorRepo) Upsert(ctx context.Context, profile *models.ContractorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.profiles[profile.UID] = &cp
	return nil
}

func (r *memContractorRepo) ListByService(ctx context.Context, service models.ServiceType) ([]models.ContractorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContractorProfile
	for _, p := range r.profiles {
		if !p.Suspended && p.Offers(service) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memContractorRepo) IncrementTotalJobs(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[uid]++
	if p, ok := r.profiles[uid]; ok {
		p.TotalJobs++
	}
	return nil
}

func (r *memContractorRepo) ApplyRating(ctx context.Context, uid string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings[uid] = append(r.ratings[uid], rating)
	return nil
}

func (r *memContractorRepo) SetSuspended(ctx context.Context, uid string, suspended bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	if !ok {
		return contractorRepo.ErrNotFound
	}
	p.Suspended = suspended
	return nil
}

// memClientRepo is an in-memory ClientRepository.
type memClientRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.ClientProfile
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{profiles: make(map[string]*models.ClientProfile)}
}

func (r *memClientRepo) GetByID(ctx context.Context, uid string) (*models.ClientProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	if !ok {
		return nil, clientRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memClientRepo) Upsert(ctx context.Context, profile *models.ClientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.profiles[profile.UID] = &cp
	return nil
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.StatusChangedEvent
}

func (n *recordingNotifier) BookingStatusChanged(ctx context.Context, event models.StatusChangedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) recorded() []models.StatusChangedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.StatusChangedEvent, len(n.events))
	copy(out, n.events)
	return out
}

// flatResolver returns the same distance for every postcode pair.
type flatResolver struct {
	miles float64
}

func (r flatResolver) Distance(postcodeA, postcodeB string) (float64, error) {
	return r.miles, nil
}

type testEnv struct {
	svc         *DefaultBookingService
	repo        *memBookingRepo
	contractors *memContractorRepo
	clients     *memClientRepo
	notifier    *recordingNotifier
}

func newTestEnv() *testEnv {
	repo := newMemBookingRepo()
	contractors := newMemContractorRepo()
	clients := newMemClientRepo()
	notifier := &recordingNotifier{}
	svc := &DefaultBookingService{
		Repo:           repo,
		ContractorRepo: contractors,
		ClientRepo:     clients,
		Resolver:       flatResolver{miles: 2},
		Pricing:        NewPricingCalculator(nil),
		Notifier:       notifier,
		Logger:         zap.NewNop(),
	}
	return &testEnv{svc: svc, repo: repo, contractors: contractors, clients: clients, notifier: notifier}
}

func (e *testEnv) addCleaner(uid string, services ...models.ServiceType) {
	if len(services) == 0 {
		services = []models.ServiceType{models.ServiceRegular}
	}
	e.contractors.Upsert(context.Background(), &models.ContractorProfile{
		UID:             uid,
		Name:            "Cleaner " + uid,
		Postcode:        "SW1A 1AA",
		RadiusMiles:     10,
		ServicesOffered: services,
	})
}

func (e *testEnv) seedBooking(id, clientID string, status models.BookingStatus) *models.Booking {
	b := &models.Booking{
		ID:            id,
		ClientID:      clientID,
		Status:        status,
		ServiceType:   models.ServiceRegular,
		DurationHours: 3,
		Frequency:     models.FrequencyOneTime,
		Schedule:      models.Schedule{Date: "2026-12-01", Time: "10:00"},
		Address:       models.Address{Street: "1 High St", City: "London", Postcode: "SW1A 1AA"},
		TotalPrice:    75,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now().UTC().Add(-3 * time.Hour),
		UpdatedAt:     time.Now().UTC().Add(-3 * time.Hour),
	}
	e.repo.Create(context.Background(), b)
	return b
}
