package payment

import (
	"context"
	"fmt"
	"math"

	"neatly/models"
	"neatly/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// RefundEmitter forwards a refund request to the payment collaborator.
// The core only records the intended amount and emits the request.
type RefundEmitter interface {
	EmitRefund(ctx context.Context, req models.RefundRequest) error
}

// AsynqRefundEmitter queues refund requests for the background worker.
type AsynqRefundEmitter struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqRefundEmitter(client *asynq.Client, logger *zap.Logger) *AsynqRefundEmitter {
	return &AsynqRefundEmitter{Client: client, Logger: logger}
}

func (e *AsynqRefundEmitter) EmitRefund(ctx context.Context, req models.RefundRequest) error {
	task, err := tasks.NewRefundRequestTask(req)
	if err != nil {
		return fmt.Errorf("build refund task: %w", err)
	}
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue refund task: %w", err)
	}
	e.Logger.Info("queued refund request",
		zap.String("booking_id", req.BookingID),
		zap.Float64("amount", req.Amount),
	)
	return nil
}

// pence converts a pound amount to integer pence. Rounding rather than
// truncating matters: 64.07 * 100 is 6406.999... in float64.
func pence(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// StripeRefunder executes queued refund requests against Stripe. Used by the
// background worker once the request has been durably recorded.
type StripeRefunder struct {
	Logger *zap.Logger
}

// Refund issues a Stripe refund against the booking's payment intent.
// Amount is converted to pence; Stripe rejects zero-amount refunds so a
// whole-booking refund passes the full amount explicitly.
func (r *StripeRefunder) Refund(ctx context.Context, paymentIntentID string, req models.RefundRequest) error {
	if paymentIntentID == "" {
		// Nothing captured yet; recording the intended amount is all the
		// ledger needs.
		r.Logger.Info("refund request without payment intent, skipping gateway call",
			zap.String("booking_id", req.BookingID))
		return nil
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(pence(req.Amount)),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	res, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("stripe refund for booking %s: %w", req.BookingID, err)
	}
	r.Logger.Info("stripe refund created",
		zap.String("booking_id", req.BookingID),
		zap.String("refund_id", res.ID),
	)
	return nil
}
