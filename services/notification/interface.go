package notification

import (
	"context"
	"fmt"

	"neatly/models"
	"neatly/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier receives booking lifecycle events. Delivery and retry are the
// collaborator's responsibility; the core only fires the event.
type Notifier interface {
	BookingStatusChanged(ctx context.Context, event models.StatusChangedEvent) error
}

// AsynqNotifier queues events for background delivery instead of pushing
// inline on the request path.
type AsynqNotifier struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqNotifier(client *asynq.Client, logger *zap.Logger) *AsynqNotifier {
	return &AsynqNotifier{Client: client, Logger: logger}
}

func (n *AsynqNotifier) BookingStatusChanged(ctx context.Context, event models.StatusChangedEvent) error {
	task, err := tasks.NewStatusChangedTask(event)
	if err != nil {
		return fmt.Errorf("build status-changed task: %w", err)
	}
	if _, err := n.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue status-changed task: %w", err)
	}
	n.Logger.Debug("queued status change notification",
		zap.String("booking_id", event.BookingID),
		zap.String("old_status", string(event.OldStatus)),
		zap.String("new_status", string(event.NewStatus)),
	)
	return nil
}
