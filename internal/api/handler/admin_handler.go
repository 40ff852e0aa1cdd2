package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locallink/booking-api/internal/core/ports"
)

// AdminHandler handles the admin-only user and booking management routes.
// Role gating happens in the router; handlers assume an admin identity.
type AdminHandler struct {
	users    ports.UserService
	bookings ports.BookingService
}

func NewAdminHandler(users ports.UserService, bookings ports.BookingService) *AdminHandler {
	return &AdminHandler{users: users, bookings: bookings}
}

type adminUpdateUserRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ListUsers handles GET /admin/users.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser handles PATCH /admin/users/:id — role and active-flag changes.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "User id"
// @Param        body  body      adminUpdateUserRequest  true  "Role and/or active flag"
// @Success      200   {object}  map[string]any
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.AdminUpdate(c.Request().Context(), c.Param("id"), ports.AdminUserPatch{
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "User updated",
		"user":    user,
	})
}

// DeleteUser handles DELETE /admin/users/:id and cascades to the user's
// services and bookings.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.users.AdminDelete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}

// ListBookings handles GET /admin/bookings.
//
// @Summary      List all bookings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.BookingDetail
// @Failure      403  {object}  map[string]string
// @Router       /admin/bookings [get]
func (h *AdminHandler) ListBookings(c echo.Context) error {
	bookings, err := h.bookings.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// DeleteBooking handles DELETE /admin/bookings/:id.
//
// @Summary      Delete a booking
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/bookings/{id} [delete]
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	if err := h.bookings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Booking deleted"})
}
