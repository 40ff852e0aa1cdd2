package ports

import (
	"context"
	"time"

	"github.com/locallink/booking-api/internal/core/domain"
)

// BookingInput carries the fields accepted when creating a booking.
// ClientID is the acting identity; a caller-supplied status is ignored and
// every booking starts pending.
type BookingInput struct {
	ServiceID    string
	ClientID     string
	Date         time.Time
	Notes        string
	Location     string
	ContactPhone string
}

// OwnBookingPatch is the allow-list for the self-service update path: the
// booking's own client may request cancellation or a reschedule and edit
// notes, nothing else.
type OwnBookingPatch struct {
	Status *domain.BookingStatus
	Notes  *string
}

// BookingDetail is the outward view of a booking with the service (itself
// carrying provider and category) and client resolved by explicit lookup.
type BookingDetail struct {
	domain.Booking
	Service *ServiceDetail `json:"service"`
	Client  *domain.User   `json:"client"`
}

// BookingService implements booking CRUD and the status state machine.
//
// Update is the full-privilege path (admin/provider): any status value, any
// mutable field. UpdateOwn is the client path: restricted statuses, notes
// only, terminal states enforced, owner checked.
type BookingService interface {
	List(ctx context.Context) ([]*BookingDetail, error)
	ListByClient(ctx context.Context, clientID string) ([]*BookingDetail, error)
	Get(ctx context.Context, id string) (*BookingDetail, error)
	Create(ctx context.Context, in BookingInput) (*BookingDetail, error)
	Update(ctx context.Context, id string, patch BookingPatch) (*BookingDetail, error)
	UpdateOwn(ctx context.Context, id, clientID string, patch OwnBookingPatch) (*BookingDetail, error)
	Delete(ctx context.Context, id string) error
}
