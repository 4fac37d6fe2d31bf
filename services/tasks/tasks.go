package tasks

import (
	"encoding/json"

	"neatly/models"

	"github.com/hibiken/asynq"
)

const (
	// TypeNotifyStatusChanged delivers a booking-status-changed push.
	TypeNotifyStatusChanged = "notification:status_changed"
	// TypeRefundRequest forwards a refund request to the payment gateway.
	TypeRefundRequest = "payment:refund"
	// TypeAutoAssignSweep assigns stale pending bookings to the best cleaner.
	TypeAutoAssignSweep = "booking:auto_assign_sweep"
)

// NewStatusChangedTask wraps a status-changed event as an asynq task.
func NewStatusChangedTask(event models.StatusChangedEvent) (*asynq.Task, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotifyStatusChanged, b), nil
}

// NewRefundRequestTask wraps a refund request as an asynq task.
func NewRefundRequestTask(req models.RefundRequest) (*asynq.Task, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefundRequest, b, asynq.MaxRetry(5)), nil
}

// NewAutoAssignSweepTask creates the periodic auto-assignment task.
func NewAutoAssignSweepTask() *asynq.Task {
	return asynq.NewTask(TypeAutoAssignSweep, nil)
}
