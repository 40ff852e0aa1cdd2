package ports

import (
	"context"

	"github.com/locallink/booking-api/internal/core/domain"
)

// AdminUserPatch is the allow-list for the admin user-management path.
// Unknown role values are ignored rather than rejected.
type AdminUserPatch struct {
	Role     *string
	IsActive *bool
}

// UserService implements the public user reads and admin user management.
// Deleting a user cascades to their bookings, their services, and the
// bookings of those services.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	AdminUpdate(ctx context.Context, id string, patch AdminUserPatch) (*domain.User, error)
	AdminDelete(ctx context.Context, id string) error
}
