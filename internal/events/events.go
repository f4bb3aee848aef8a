package events

// Event types published to the notifications topic.
const (
	TypeHousekeepingTaskCreated = "reservation.housekeeping.task.created"
	TypeStayReminderRequested   = "reservation.stay.reminder.requested"
)

// EventSource identifies this service as the CloudEvents source.
const EventSource = "service-reservation"

// HousekeepingTaskPayload asks housekeeping to prepare a vacated room.
type HousekeepingTaskPayload struct {
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	CheckOut  string `json:"check_out"`
}

// StayReminderPayload reminds a guest of a stay starting tomorrow.
type StayReminderPayload struct {
	BookingID  string `json:"booking_id"`
	GuestEmail string `json:"guest_email"`
	RoomID     string `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}
