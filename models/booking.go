package models

import "time"

// BookingStatus is the closed set of lifecycle states a booking can be in.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// legalTransitions is the single source of truth for the booking state machine.
// Admin overrides bypass this table deliberately; everything else goes through it.
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is one of the five known statuses.
func (s BookingStatus) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// Terminal reports whether no further normal transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is legal under the
// normal (non-admin) state machine.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ServiceType identifies the kind of cleaning service being booked.
type ServiceType string

const (
	ServiceRegular      ServiceType = "regular_cleaning"
	ServiceDeep         ServiceType = "deep_cleaning"
	ServiceEndOfTenancy ServiceType = "end_of_tenancy"
	ServiceOffice       ServiceType = "office_cleaning"
	ServiceMoveIn       ServiceType = "move_in"
	ServiceMoveOut      ServiceType = "move_out"
	ServiceOneTime      ServiceType = "one_time"
)

// Valid reports whether s is one of the known service types.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceRegular, ServiceDeep, ServiceEndOfTenancy, ServiceOffice,
		ServiceMoveIn, ServiceMoveOut, ServiceOneTime:
		return true
	}
	return false
}

// Frequency describes how often a booking recurs.
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
)

// PaymentStatus mirrors what the payment collaborator reports for a booking.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentRefunded  PaymentStatus = "refunded"
)

// CancelledBy records which kind of actor cancelled a booking.
type CancelledBy string

const (
	CancelledByClient  CancelledBy = "client"
	CancelledByCleaner CancelledBy = "cleaner"
	CancelledBySystem  CancelledBy = "system"
	CancelledByAdmin   CancelledBy = "admin"
)

// Address is the service location. Postcode must be a UK postcode.
type Address struct {
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	Postcode string `bson:"postcode" json:"postcode"`
}

// Schedule holds the agreed date and start time for a booking.
type Schedule struct {
	Date string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time string `bson:"time" json:"time"` // "HH:MM", Europe/London
}

// StartsAt combines the schedule date and time into a single instant.
func (s Schedule) StartsAt() (time.Time, error) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.Time, loc)
}

// Booking is the central marketplace entity: one scheduled cleaning
// engagement between one client and at most one cleaner.
type Booking struct {
	ID                  string        `bson:"id" json:"id"`
	ClientID            string        `bson:"client_id" json:"client_id"`
	CleanerID           string        `bson:"cleaner_id,omitempty" json:"cleaner_id,omitempty"` // empty means unassigned
	Status              BookingStatus `bson:"status" json:"status"`
	ServiceType         ServiceType   `bson:"service_type" json:"service_type"`
	DurationHours       int           `bson:"duration_hours" json:"duration_hours"`
	Frequency           Frequency     `bson:"frequency" json:"frequency"`
	SpecialRequirements []string      `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`
	Schedule            Schedule      `bson:"schedule" json:"schedule"`
	Address             Address       `bson:"address" json:"address"`
	TotalPrice          float64       `bson:"total_price" json:"total_price"`
	PaymentStatus       PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentIntentID     string        `bson:"payment_intent_id,omitempty" json:"-"` // set by the payment collaborator

	RefundAmount        float64       `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"`
	Rating              int           `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5, set by client after completion
	Review              string        `bson:"review,omitempty" json:"review,omitempty"`
	AdminNotes          string        `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	CancelReason        string        `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CancelledBy         CancelledBy   `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	CancelledAt         *time.Time    `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CompletedAt         *time.Time    `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt           time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `bson:"updated_at" json:"updated_at"`
}

// Assigned reports whether a cleaner has been assigned to the booking.
func (b *Booking) Assigned() bool {
	return b.CleanerID != ""
}
