package ports

import (
	"context"
	"time"

	"github.com/locallink/booking-api/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, cat *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, cat *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// ServicePatch is the allow-list of mutable service fields. Nil pointers
// leave the stored field untouched.
type ServicePatch struct {
	Title       *string
	Description *string
	Price       *float64
	ImageURL    *string
	CategoryID  *string
	ProviderID  *string
}

// ServiceRepository defines persistence operations for marketplace services.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Service, error)
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Service, error)
	Patch(ctx context.Context, id string, patch ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
	DeleteByProvider(ctx context.Context, providerID string) error
}

// BookingPatch is the allow-list of mutable booking fields. ServiceID and
// ClientID are deliberately absent: both are immutable after creation.
type BookingPatch struct {
	Status       *domain.BookingStatus
	Notes        *string
	Location     *string
	ContactPhone *string
	Date         *time.Time
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]*domain.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error)
	Patch(ctx context.Context, id string, patch BookingPatch) (*domain.Booking, error)
	// PatchIfStatus applies patch only when the booking still belongs to
	// clientID and its status still equals current (compare-and-set, so a
	// concurrent transition cannot be silently overwritten). A filter miss
	// on the status is reported as domain.ErrInvalidTransition.
	PatchIfStatus(ctx context.Context, id, clientID string, current domain.BookingStatus, patch BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	DeleteByService(ctx context.Context, serviceID string) error
	DeleteByClient(ctx context.Context, clientID string) error
}
