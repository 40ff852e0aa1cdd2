package ports

import (
	"context"

	"github.com/locallink/booking-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// FindByEmail expects an already lower-cased email; the identity layer owns
// normalization.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
