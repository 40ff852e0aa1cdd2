package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelled           BookingStatus = "cancelled"
	StatusRescheduleRequested BookingStatus = "reschedule_requested"
)

// validTransitions defines the allowed state machine transitions.
// Completed and cancelled are terminal and have no outgoing edges.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:             {StatusConfirmed, StatusCancelled, StatusRescheduleRequested},
	StatusConfirmed:           {StatusCompleted, StatusCancelled, StatusRescheduleRequested},
	StatusRescheduleRequested: {StatusPending, StatusConfirmed, StatusCancelled},
}

// clientStatuses are the only target statuses a booking's own client may
// request through the self-service path.
var clientStatuses = map[BookingStatus]struct{}{
	StatusCancelled:           {},
	StatusRescheduleRequested: {},
}

// KnownStatus reports whether s is one of the five booking statuses.
func KnownStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduleRequested:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ClientMaySet reports whether the self-service path permits requesting next
// as the new status at all, regardless of the current state.
func ClientMaySet(next BookingStatus) bool {
	_, ok := clientStatuses[next]
	return ok
}

// Booking is a client's request for a service on a given date. ServiceID and
// ClientID are assigned at creation and never reassigned.
type Booking struct {
	ID           string        `json:"id"`
	ServiceID    string        `json:"service_id"`
	ClientID     string        `json:"client_id"`
	Date         time.Time     `json:"date"`
	Status       BookingStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"`
	Location     string        `json:"location,omitempty"`
	ContactPhone string        `json:"contact_phone,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
