package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"neatly/config"
	bookingRepo "neatly/database/repository/booking"
	"neatly/models"
	"neatly/services/booking"
	"neatly/services/notification"
	"neatly/services/payment"
	"neatly/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// sweepInterval is how often stale pending bookings are re-examined for
// automatic assignment.
const sweepInterval = 15 * time.Minute

// WorkerDeps carries everything the background worker needs.
type WorkerDeps struct {
	Bookings bookingRepo.BookingRepository
	Push     *notification.PushSender
	Refunder *payment.StripeRefunder
	Assigner *booking.AutoAssigner
	Logger   *zap.Logger
}

// InitWorker starts the asynq worker and the periodic sweep enqueuer in the
// background. It returns immediately; the worker retries startup a few
// times before giving up.
func InitWorker(deps WorkerDeps) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotifyStatusChanged, handleStatusChanged(deps))
	mux.HandleFunc(tasks.TypeRefundRequest, handleRefund(deps))
	mux.HandleFunc(tasks.TypeAutoAssignSweep, handleSweep(deps))

	go enqueueSweeps(redisOpts, deps.Logger)

	go func() {
		deps.Logger.Info("starting background worker")
		const maxAttempts = 5

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				deps.Logger.Error("worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					deps.Logger.Fatal("worker start attempts exhausted")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// enqueueSweeps periodically queues the auto-assignment sweep. The sweep
// runs through the queue rather than inline so a multi-instance deployment
// only processes it once.
func enqueueSweeps(redisOpts asynq.RedisClientOpt, logger *zap.Logger) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := client.Enqueue(tasks.NewAutoAssignSweepTask()); err != nil {
			logger.Warn("failed to enqueue auto-assign sweep", zap.Error(err))
		}
	}
}

func handleStatusChanged(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event models.StatusChangedEvent
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			deps.Logger.Error("invalid status-changed payload", zap.Error(err))
			return err
		}
		return deps.Push.Deliver(ctx, event)
	}
}

func handleRefund(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var req models.RefundRequest
		if err := json.Unmarshal(task.Payload(), &req); err != nil {
			deps.Logger.Error("invalid refund payload", zap.Error(err))
			return err
		}

		b, err := deps.Bookings.GetByID(ctx, req.BookingID)
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// The booking is gone; retrying will never succeed.
			deps.Logger.Error("refund requested for unknown booking",
				zap.String("booking_id", req.BookingID))
			return nil
		}
		if err != nil {
			return err
		}
		return deps.Refunder.Refund(ctx, b.PaymentIntentID, req)
	}
}

func handleSweep(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		stats, err := deps.Assigner.ProcessPendingJobs(ctx)
		if err != nil {
			return err
		}
		deps.Logger.Info("auto-assign sweep finished",
			zap.Int("processed", stats.Processed),
			zap.Int("assigned", stats.Assigned),
			zap.Int("failed", stats.Failed),
		)
		return nil
	}
}
