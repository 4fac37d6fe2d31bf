package notification

import (
	"context"
	"fmt"

	clientRepo "neatly/database/repository/client"
	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"
	"neatly/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// PushSender delivers status-changed events as FCM pushes to the booking's
// parties. Used by the background worker, never on the request path.
type PushSender struct {
	Clients     clientRepo.ClientRepository
	Contractors contractorRepo.ContractorRepository
	Logger      *zap.Logger
}

// Deliver sends a push to the client and, when assigned, the cleaner.
// A missing token is logged and skipped, not an error.
func (s *PushSender) Deliver(ctx context.Context, event models.StatusChangedEvent) error {
	title := "Booking update"
	body := fmt.Sprintf("Your booking is now %s", event.NewStatus)
	data := map[string]string{
		"booking_id": event.BookingID,
		"old_status": string(event.OldStatus),
		"new_status": string(event.NewStatus),
	}

	if token := s.clientToken(ctx, event.ClientID); token != "" {
		if err := s.send(ctx, token, title, body, data); err != nil {
			return fmt.Errorf("push to client %s: %w", event.ClientID, err)
		}
	}
	if event.CleanerID != "" {
		if token := s.cleanerToken(ctx, event.CleanerID); token != "" {
			if err := s.send(ctx, token, title, body, data); err != nil {
				return fmt.Errorf("push to cleaner %s: %w", event.CleanerID, err)
			}
		}
	}
	return nil
}

func (s *PushSender) clientToken(ctx context.Context, uid string) string {
	profile, err := s.Clients.GetByID(ctx, uid)
	if err != nil || profile.FCMToken == "" {
		s.Logger.Debug("no push token for client", zap.String("uid", uid))
		return ""
	}
	return profile.FCMToken
}

func (s *PushSender) cleanerToken(ctx context.Context, uid string) string {
	profile, err := s.Contractors.GetByID(ctx, uid)
	if err != nil || profile.FCMToken == "" {
		s.Logger.Debug("no push token for cleaner", zap.String("uid", uid))
		return ""
	}
	return profile.FCMToken
}

func (s *PushSender) send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	_, err := utils.FCMClient.Send(ctx, msg)
	return err
}
