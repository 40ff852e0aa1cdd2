package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

type stubBookingService struct {
	listFn         func(ctx context.Context) ([]*ports.BookingDetail, error)
	listByClientFn func(ctx context.Context, clientID string) ([]*ports.BookingDetail, error)
	getFn          func(ctx context.Context, id string) (*ports.BookingDetail, error)
	createFn       func(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error)
	updateFn       func(ctx context.Context, id string, patch ports.BookingPatch) (*ports.BookingDetail, error)
	updateOwnFn    func(ctx context.Context, id, clientID string, patch ports.OwnBookingPatch) (*ports.BookingDetail, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (s *stubBookingService) List(ctx context.Context) ([]*ports.BookingDetail, error) {
	return s.listFn(ctx)
}

func (s *stubBookingService) ListByClient(ctx context.Context, clientID string) ([]*ports.BookingDetail, error) {
	return s.listByClientFn(ctx, clientID)
}

func (s *stubBookingService) Get(ctx context.Context, id string) (*ports.BookingDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookingService) Create(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookingService) Update(ctx context.Context, id string, patch ports.BookingPatch) (*ports.BookingDetail, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubBookingService) UpdateOwn(ctx context.Context, id, clientID string, patch ports.OwnBookingPatch) (*ports.BookingDetail, error) {
	return s.updateOwnFn(ctx, id, clientID, patch)
}

func (s *stubBookingService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func bookingDetail(id, clientID string, status domain.BookingStatus) *ports.BookingDetail {
	return &ports.BookingDetail{
		Booking: domain.Booking{ID: id, ServiceID: "s1", ClientID: clientID, Status: status},
	}
}

func newBookingContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingHandler_Create_StatusInBodyIgnored(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error) {
			if in.ClientID != "u1" || in.ServiceID != "s1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
			if !in.Date.Equal(want) {
				t.Fatalf("unexpected date: %v", in.Date)
			}
			return bookingDetail("b1", in.ClientID, domain.StatusPending), nil
		},
	}
	handler := NewBookingHandler(stub)

	// A status in the body is accepted and dropped; the service starts pending.
	c, rec := newBookingContext(t, http.MethodPost, "/bookings",
		`{"service_id":"s1","date":"2026-09-01","status":"confirmed"}`)
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleClient)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestBookingHandler_Create_ClientIDMismatch(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewBookingHandler(stub)

	c, _ := newBookingContext(t, http.MethodPost, "/bookings",
		`{"service_id":"s1","date":"2026-09-01","client_id":"someone-else"}`)
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleClient)

	if err := handler.Create(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBookingHandler_Create_BadDate(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewBookingHandler(stub)

	c, _ := newBookingContext(t, http.MethodPost, "/bookings",
		`{"service_id":"s1","date":"not-a-date"}`)
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleClient)

	err := handler.Create(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "Invalid date format" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestBookingHandler_Create_MissingFields(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(ctx context.Context, in ports.BookingInput) (*ports.BookingDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewBookingHandler(stub)

	c, _ := newBookingContext(t, http.MethodPost, "/bookings", `{"notes":"hi"}`)
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleClient)

	err := handler.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBookingHandler_Get_OwnerOrAdmin(t *testing.T) {
	stub := &stubBookingService{
		getFn: func(ctx context.Context, id string) (*ports.BookingDetail, error) {
			return bookingDetail(id, "u1", domain.StatusPending), nil
		},
	}
	handler := NewBookingHandler(stub)

	// The owner may read it.
	c, rec := newBookingContext(t, http.MethodGet, "/bookings/b1", "")
	c.SetParamNames("id")
	c.SetParamValues("b1")
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleClient)
	if err := handler.Get(c); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// A different client may not.
	c, _ = newBookingContext(t, http.MethodGet, "/bookings/b1", "")
	c.SetParamNames("id")
	c.SetParamValues("b1")
	c.Set("user_id", "u2")
	c.Set("role", domain.RoleClient)
	if err := handler.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Admin sees anything.
	c, rec = newBookingContext(t, http.MethodGet, "/bookings/b1", "")
	c.SetParamNames("id")
	c.SetParamValues("b1")
	c.Set("user_id", "u99")
	c.Set("role", domain.RoleAdmin)
	if err := handler.Get(c); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookingHandler_Update_BuildsPatch(t *testing.T) {
	stub := &stubBookingService{
		updateFn: func(ctx context.Context, id string, patch ports.BookingPatch) (*ports.BookingDetail, error) {
			if id != "b1" {
				t.Fatalf("unexpected id %q", id)
			}
			if patch.Status == nil || *patch.Status != domain.StatusConfirmed {
				t.Fatalf("expected status patch, got %+v", patch)
			}
			if patch.Notes == nil || *patch.Notes != "bring ladder" {
				t.Fatalf("expected notes patch, got %+v", patch)
			}
			if patch.Location != nil || patch.ContactPhone != nil || patch.Date != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return bookingDetail(id, "u1", domain.StatusConfirmed), nil
		},
	}
	handler := NewBookingHandler(stub)

	c, rec := newBookingContext(t, http.MethodPatch, "/bookings/b1",
		`{"status":"confirmed","notes":"bring ladder"}`)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookingHandler_Delete(t *testing.T) {
	stub := &stubBookingService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "b1" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil
		},
	}
	handler := NewBookingHandler(stub)

	c, rec := newBookingContext(t, http.MethodDelete, "/bookings/b1", "")
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	stub.deleteFn = func(ctx context.Context, id string) error { return domain.ErrBookingNotFound }
	c, _ = newBookingContext(t, http.MethodDelete, "/bookings/ghost", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
