package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking CRUD.
type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	ServiceID    string `json:"service_id" validate:"required"`
	ClientID     string `json:"client_id"`
	Date         string `json:"date" validate:"required"`
	Notes        string `json:"notes"`
	Location     string `json:"location"`
	ContactPhone string `json:"contact_phone"`
	// Status is accepted but ignored: every booking starts pending.
	Status string `json:"status"`
}

type updateBookingRequest struct {
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
	Location     *string `json:"location"`
	ContactPhone *string `json:"contact_phone"`
	Date         *string `json:"date"`
}

// dateLayouts are the accepted booking date shapes, broadest first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("Invalid date format")
}

// List handles GET /bookings (admin only, enforced by the router).
//
// @Summary      List all bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.BookingDetail
// @Failure      403  {object}  map[string]string
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.bookings.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// Get handles GET /bookings/:id. Clients only see their own bookings;
// admins see any.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  ports.BookingDetail
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	booking, err := h.bookings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && booking.ClientID != userID {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, booking)
}

// Create handles POST /bookings. The acting identity is always the client;
// a body client_id naming someone else is rejected.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      201   {object}  ports.BookingDetail
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ClientID != "" && req.ClientID != userID {
		return domain.ErrForbidden
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	booking, err := h.bookings.Create(c.Request().Context(), ports.BookingInput{
		ServiceID:    req.ServiceID,
		ClientID:     userID,
		Date:         date,
		Notes:        req.Notes,
		Location:     req.Location,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

// Update handles PATCH /bookings/:id — the full-privilege path
// (admin/provider, enforced by the router). Absent fields stay untouched.
//
// @Summary      Update a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking id"
// @Param        body  body      updateBookingRequest  true  "Fields to change"
// @Success      200   {object}  ports.BookingDetail
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /bookings/{id} [patch]
func (h *BookingHandler) Update(c echo.Context) error {
	var req updateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := ports.BookingPatch{
		Notes:        req.Notes,
		Location:     req.Location,
		ContactPhone: req.ContactPhone,
	}
	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		patch.Status = &status
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		patch.Date = &date
	}

	booking, err := h.bookings.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Delete handles DELETE /bookings/:id (admin only, enforced by the router).
//
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.bookings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Booking deleted"})
}
