package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

func newUserFixture(t *testing.T) (*UserService, *stubUserRepo, *stubServiceRepo, *stubBookingRepo) {
	t.Helper()
	users := newStubUserRepo()
	svcs := newStubServiceRepo()
	bookings := newStubBookingRepo()
	return NewUserService(users, svcs, bookings, zerolog.Nop()), users, svcs, bookings
}

func TestUserService_AdminUpdate(t *testing.T) {
	svc, users, _, _ := newUserFixture(t)

	created, _ := users.Create(context.Background(), &domain.User{Username: "bob", Role: domain.RoleClient, IsActive: true})

	role := domain.RoleProvider
	updated, err := svc.AdminUpdate(context.Background(), created.ID, ports.AdminUserPatch{Role: &role})
	if err != nil {
		t.Fatalf("AdminUpdate returned error: %v", err)
	}
	if updated.Role != domain.RoleProvider {
		t.Fatalf("expected role provider, got %q", updated.Role)
	}

	// Unknown roles are ignored, not rejected.
	bogus := "superuser"
	inactive := false
	updated, err = svc.AdminUpdate(context.Background(), created.ID, ports.AdminUserPatch{Role: &bogus, IsActive: &inactive})
	if err != nil {
		t.Fatalf("AdminUpdate returned error: %v", err)
	}
	if updated.Role != domain.RoleProvider {
		t.Fatalf("unknown role must be ignored, got %q", updated.Role)
	}
	if updated.IsActive {
		t.Fatalf("expected is_active false")
	}

	if _, err := svc.AdminUpdate(context.Background(), "ghost", ports.AdminUserPatch{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_AdminDelete_Cascades(t *testing.T) {
	svc, users, svcs, bookings := newUserFixture(t)

	doomed, _ := users.Create(context.Background(), &domain.User{Username: "pat", Role: domain.RoleProvider, IsActive: true})
	other, _ := users.Create(context.Background(), &domain.User{Username: "sam", Role: domain.RoleProvider, IsActive: true})

	owned, _ := svcs.Create(context.Background(), &domain.Service{Title: "A", ProviderID: doomed.ID})
	kept, _ := svcs.Create(context.Background(), &domain.Service{Title: "B", ProviderID: other.ID})

	// One booking made by the user, one made against their service, one unrelated.
	_, _ = bookings.Create(context.Background(), &domain.Booking{ServiceID: kept.ID, ClientID: doomed.ID, Status: domain.StatusPending})
	_, _ = bookings.Create(context.Background(), &domain.Booking{ServiceID: owned.ID, ClientID: other.ID, Status: domain.StatusConfirmed})
	survivor, _ := bookings.Create(context.Background(), &domain.Booking{ServiceID: kept.ID, ClientID: other.ID, Status: domain.StatusPending})

	if err := svc.AdminDelete(context.Background(), doomed.ID); err != nil {
		t.Fatalf("AdminDelete returned error: %v", err)
	}

	if _, err := users.FindByID(context.Background(), doomed.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user removed, got %v", err)
	}
	if _, ok := svcs.svcs[owned.ID]; ok {
		t.Fatalf("expected services of deleted provider removed")
	}
	if _, ok := svcs.svcs[kept.ID]; !ok {
		t.Fatalf("other providers' services must survive")
	}
	if len(bookings.bookings) != 1 {
		t.Fatalf("expected exactly the unrelated booking to survive, have %d", len(bookings.bookings))
	}
	if _, ok := bookings.bookings[survivor.ID]; !ok {
		t.Fatalf("unrelated booking must survive")
	}

	if err := svc.AdminDelete(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
