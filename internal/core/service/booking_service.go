package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/locallink/booking-api/internal/api/metrics"
	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

// BookingService implements booking CRUD and enforces the status state
// machine and the per-role mutation allow-lists.
type BookingService struct {
	bookings ports.BookingRepository
	users    ports.UserRepository
	catalog  ports.CatalogService
	log      zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	users ports.UserRepository,
	catalog ports.CatalogService,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{bookings: bookings, users: users, catalog: catalog, log: log}
}

func (s *BookingService) List(ctx context.Context) ([]*ports.BookingDetail, error) {
	items, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items)
}

func (s *BookingService) ListByClient(ctx context.Context, clientID string) ([]*ports.BookingDetail, error) {
	items, err := s.bookings.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items)
}

func (s *BookingService) Get(ctx context.Context, id string) (*ports.BookingDetail, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, b)
}

// Create validates the foreign keys and persists a new booking. The status
// is always forced to pending regardless of what the caller supplied.
func (s *BookingService) Create(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error) {
	if in.ServiceID == "" {
		return nil, domain.NewValidationError("Service is required")
	}
	if in.ClientID == "" {
		return nil, domain.NewValidationError("Client is required")
	}
	if in.Date.IsZero() {
		return nil, domain.NewValidationError("Booking date is required")
	}

	if _, err := s.catalog.GetService(ctx, in.ServiceID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	created, err := s.bookings.Create(ctx, &domain.Booking{
		ServiceID:    in.ServiceID,
		ClientID:     in.ClientID,
		Date:         in.Date,
		Status:       domain.StatusPending,
		Notes:        in.Notes,
		Location:     in.Location,
		ContactPhone: in.ContactPhone,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()
	s.log.Info().Str("booking_id", created.ID).Str("service_id", created.ServiceID).Str("client_id", created.ClientID).Msg("booking created")

	return s.detail(ctx, created)
}

// Update is the full-privilege path: any known status value may be set
// without transition restriction, and every mutable field is editable.
func (s *BookingService) Update(ctx context.Context, id string, patch ports.BookingPatch) (*ports.BookingDetail, error) {
	if _, err := s.bookings.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.Status != nil && !domain.KnownStatus(*patch.Status) {
		return nil, domain.NewValidationError("Invalid status change")
	}

	updated, err := s.bookings.Patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		metrics.BookingStatusChangesTotal.WithLabelValues(string(*patch.Status), "staff").Inc()
		s.log.Info().Str("booking_id", id).Str("status", string(*patch.Status)).Msg("booking status set")
	}

	return s.detail(ctx, updated)
}

// UpdateOwn is the self-service path. The booking's own client may request
// cancelled or reschedule_requested (never a staff-only status) and edit
// notes; terminal states reject any further transition. The write is a
// compare-and-set on the status read here, so a concurrent transition fails
// rather than being overwritten.
func (s *BookingService) UpdateOwn(ctx context.Context, id, clientID string, patch ports.OwnBookingPatch) (*ports.BookingDetail, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != clientID {
		return nil, domain.NewForbiddenError("You can only modify your own bookings")
	}

	if patch.Status != nil {
		next := *patch.Status
		if !domain.ClientMaySet(next) {
			return nil, domain.NewValidationError("Invalid status change")
		}
		if !booking.Status.CanTransitionTo(next) {
			return nil, domain.ErrInvalidTransition
		}
	}

	updated, err := s.bookings.PatchIfStatus(ctx, id, clientID, booking.Status, ports.BookingPatch{
		Status: patch.Status,
		Notes:  patch.Notes,
	})
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		metrics.BookingStatusChangesTotal.WithLabelValues(string(*patch.Status), "client").Inc()
		s.log.Info().Str("booking_id", id).Str("status", string(*patch.Status)).Msg("booking status set by client")
	}

	return s.detail(ctx, updated)
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	if _, err := s.bookings.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("booking_id", id).Msg("booking deleted")
	return nil
}

func (s *BookingService) details(ctx context.Context, items []*domain.Booking) ([]*ports.BookingDetail, error) {
	details := make([]*ports.BookingDetail, 0, len(items))
	for _, b := range items {
		d, err := s.detail(ctx, b)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// detail resolves the embedded service and client. Dangling references are
// tolerated on reads and render as null sub-documents.
func (s *BookingService) detail(ctx context.Context, b *domain.Booking) (*ports.BookingDetail, error) {
	detail := &ports.BookingDetail{Booking: *b}

	svc, err := s.catalog.GetService(ctx, b.ServiceID)
	if err != nil && !errors.Is(err, domain.ErrServiceNotFound) {
		return nil, err
	}
	detail.Service = svc

	client, err := s.users.FindByID(ctx, b.ClientID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	detail.Client = client

	return detail, nil
}
