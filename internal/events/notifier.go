package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	"github.com/harborview/service-reservation/internal/platform/kafka"
)

// KafkaNotifier publishes notification requests as CloudEvents. Delivery of
// the resulting emails happens asynchronously in the worker process.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
}

// NewKafkaNotifier creates a notifier publishing to the given topic.
func NewKafkaNotifier(producer *kafka.Producer, topic string, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, logger: logger}
}

// NotifyHousekeeping publishes a housekeeping task for the vacated room.
func (n *KafkaNotifier) NotifyHousekeeping(ctx context.Context, b *bookingDomain.Booking) error {
	payload := HousekeepingTaskPayload{
		BookingID: b.ID().String(),
		RoomID:    b.RoomID().String(),
		CheckOut:  b.CheckOut().Format(time.DateOnly),
	}

	event, err := kafka.NewCloudEvent(EventSource, TypeHousekeepingTaskCreated, payload)
	if err != nil {
		return fmt.Errorf("failed to build housekeeping event: %w", err)
	}
	return n.producer.PublishEvent(ctx, n.topic, b.RoomID().String(), event)
}

// NotifyUpcomingStay publishes a stay reminder for the guest.
func (n *KafkaNotifier) NotifyUpcomingStay(ctx context.Context, guestEmail string, b *bookingDomain.Booking) error {
	payload := StayReminderPayload{
		BookingID:  b.ID().String(),
		GuestEmail: guestEmail,
		RoomID:     b.RoomID().String(),
		CheckIn:    b.CheckIn().Format(time.DateOnly),
		CheckOut:   b.CheckOut().Format(time.DateOnly),
	}

	event, err := kafka.NewCloudEvent(EventSource, TypeStayReminderRequested, payload)
	if err != nil {
		return fmt.Errorf("failed to build stay reminder event: %w", err)
	}
	return n.producer.PublishEvent(ctx, n.topic, b.ID().String(), event)
}
