package ports

import (
	"context"

	"github.com/locallink/booking-api/internal/core/domain"
)

// CategoryInput carries the fields accepted when creating a category.
type CategoryInput struct {
	Name     string
	ImageURL string
}

// CategoryPatch is the allow-list of mutable category fields.
type CategoryPatch struct {
	Name     *string
	ImageURL *string
}

// ServiceInput carries the fields accepted when creating a service.
type ServiceInput struct {
	Title       string
	Description string
	Price       float64
	ImageURL    string
	ProviderID  string
	CategoryID  string
}

// ServiceDetail is the outward view of a service with the provider and
// category documents resolved by explicit lookup.
type ServiceDetail struct {
	domain.Service
	Provider *domain.User     `json:"provider"`
	Category *domain.Category `json:"category"`
}

// CatalogService implements CRUD over categories and services. Deleting a
// category cascades to its services and, transitively, their bookings;
// deleting a service cascades to its bookings.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]*ServiceDetail, error)
	GetService(ctx context.Context, id string) (*ServiceDetail, error)
	CreateService(ctx context.Context, in ServiceInput) (*ServiceDetail, error)
	UpdateService(ctx context.Context, id string, patch ServicePatch) (*ServiceDetail, error)
	DeleteService(ctx context.Context, id string) error
}
