package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locallink/booking-api/internal/core/ports"
)

// ServiceHandler handles HTTP requests for marketplace service CRUD.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

type createServiceRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	ProviderID  string  `json:"provider_id" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required"`
}

type updateServiceRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	CategoryID  *string  `json:"category_id"`
	ProviderID  *string  `json:"provider_id"`
}

// List handles GET /services. Each item embeds the resolved provider and
// category.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Success      200  {array}  ports.ServiceDetail
// @Router       /services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	svcs, err := h.catalog.ListServices(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svcs)
}

// Get handles GET /services/:id.
//
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  ports.ServiceDetail
// @Failure      404  {object}  map[string]string
// @Router       /services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	svc, err := h.catalog.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Create handles POST /services.
//
// @Summary      Create a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  ports.ServiceDetail
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.catalog.CreateService(c.Request().Context(), ports.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		ProviderID:  req.ProviderID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// Update handles PATCH /services/:id. Absent fields stay untouched; unknown
// keys are ignored.
//
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service id"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  ports.ServiceDetail
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /services/{id} [patch]
func (h *ServiceHandler) Update(c echo.Context) error {
	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	svc, err := h.catalog.UpdateService(c.Request().Context(), c.Param("id"), ports.ServicePatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		ProviderID:  req.ProviderID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete handles DELETE /services/:id and cascades to the service's
// bookings.
//
// @Summary      Delete a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteService(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Service deleted"})
}
