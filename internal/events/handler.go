package events

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/harborview/service-reservation/internal/platform/kafka"
)

// MailSender delivers a single plain-text email.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationHandler turns notification events into outbound emails. It runs
// inside the worker process.
type NotificationHandler struct {
	mailer            MailSender
	housekeepingEmail string
	logger            *zap.Logger
}

// NewNotificationHandler creates a handler delivering housekeeping tasks to
// the given mailbox.
func NewNotificationHandler(mailer MailSender, housekeepingEmail string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		mailer:            mailer,
		housekeepingEmail: housekeepingEmail,
		logger:            logger,
	}
}

// Handle processes one consumed message. Unknown event types are committed and
// skipped so a newer producer cannot wedge the consumer group.
func (h *NotificationHandler) Handle(ctx context.Context, msg kafkago.Message) error {
	var event kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Warn("discarding malformed event", zap.Error(err))
		return nil
	}

	switch event.Type {
	case TypeHousekeepingTaskCreated:
		return h.handleHousekeepingTask(ctx, event)
	case TypeStayReminderRequested:
		return h.handleStayReminder(ctx, event)
	default:
		h.logger.Warn("skipping unknown event type", zap.String("type", event.Type))
		return nil
	}
}

func (h *NotificationHandler) handleHousekeepingTask(ctx context.Context, event kafka.CloudEvent) error {
	var payload HousekeepingTaskPayload
	if err := event.ParseData(&payload); err != nil {
		h.logger.Warn("discarding malformed housekeeping payload", zap.Error(err))
		return nil
	}

	subject := "Room ready for cleaning"
	body := fmt.Sprintf(
		"Guest checked out of room %s on %s (booking %s). Please prepare the room.",
		payload.RoomID, payload.CheckOut, payload.BookingID,
	)
	if err := h.mailer.Send(ctx, h.housekeepingEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send housekeeping email: %w", err)
	}

	h.logger.Info("housekeeping notified", zap.String("booking_id", payload.BookingID))
	return nil
}

func (h *NotificationHandler) handleStayReminder(ctx context.Context, event kafka.CloudEvent) error {
	var payload StayReminderPayload
	if err := event.ParseData(&payload); err != nil {
		h.logger.Warn("discarding malformed stay reminder payload", zap.Error(err))
		return nil
	}

	subject := "Your stay starts tomorrow"
	body := fmt.Sprintf(
		"We are looking forward to welcoming you tomorrow. Your stay runs from %s to %s (booking %s).",
		payload.CheckIn, payload.CheckOut, payload.BookingID,
	)
	if err := h.mailer.Send(ctx, payload.GuestEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send stay reminder email: %w", err)
	}

	h.logger.Info("stay reminder sent", zap.String("booking_id", payload.BookingID))
	return nil
}
