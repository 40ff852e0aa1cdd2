package ports

import (
	"context"

	"github.com/locallink/booking-api/internal/core/domain"
)

// SignupInput carries the fields accepted at registration. Any role other
// than client/provider is silently downgraded to client.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// ProfilePatch is the allow-list of self-editable profile fields.
type ProfilePatch struct {
	Username *string
	Email    *string
	ImageURL *string
}

// AuthService implements signup, login, and self-service account management.
// Tokens are opaque bearer credentials carrying the subject id, role, and an
// expiry; expiry is the only termination path.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
