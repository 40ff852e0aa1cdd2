package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/locallink/booking-api/internal/api/metrics"
	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

// UserService implements the public user reads and admin user management.
type UserService struct {
	users    ports.UserRepository
	services ports.ServiceRepository
	bookings ports.BookingRepository
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	services ports.ServiceRepository,
	bookings ports.BookingRepository,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, services: services, bookings: bookings, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// AdminUpdate applies role and active-flag changes. An unknown role value is
// ignored rather than rejected.
func (s *UserService) AdminUpdate(ctx context.Context, id string, patch ports.AdminUserPatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil && domain.ValidRole(*patch.Role) {
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("role", updated.Role).Bool("is_active", updated.IsActive).Msg("user updated by admin")
	return updated, nil
}

// AdminDelete removes the user, their bookings, their services, and the
// bookings of those services.
func (s *UserService) AdminDelete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.bookings.DeleteByClient(ctx, id); err != nil {
		return err
	}
	metrics.CascadeDeletesTotal.WithLabelValues("booking").Inc()

	owned, err := s.services.ListByProvider(ctx, id)
	if err != nil {
		return err
	}
	for _, svc := range owned {
		if err := s.bookings.DeleteByService(ctx, svc.ID); err != nil {
			return err
		}
		metrics.CascadeDeletesTotal.WithLabelValues("booking").Inc()
	}
	if err := s.services.DeleteByProvider(ctx, id); err != nil {
		return err
	}
	metrics.CascadeDeletesTotal.WithLabelValues("service").Add(float64(len(owned)))

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Int("services_removed", len(owned)).Msg("user deleted by admin")
	return nil
}
