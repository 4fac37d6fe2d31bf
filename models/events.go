package models

import "time"

// StatusChangedEvent is fired after every successful booking transition.
// Delivery and retry belong to the notification collaborator.
type StatusChangedEvent struct {
	BookingID string        `json:"booking_id"`
	OldStatus BookingStatus `json:"old_status"`
	NewStatus BookingStatus `json:"new_status"`
	Actor     Actor         `json:"actor"`
	ClientID  string        `json:"client_id"`
	CleanerID string        `json:"cleaner_id,omitempty"`
	At        time.Time     `json:"at"`
}

// RefundRequest is emitted when an admin cancellation records a refund.
// The core never talks to the payment gateway directly.
type RefundRequest struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}
