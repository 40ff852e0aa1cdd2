package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/locallink/booking-api/internal/api/metrics"
	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

// CatalogService implements CRUD over categories and services, including
// the cascade rules: category → services → bookings, service → bookings.
type CatalogService struct {
	categories ports.CategoryRepository
	services   ports.ServiceRepository
	users      ports.UserRepository
	bookings   ports.BookingRepository
	log        zerolog.Logger
}

func NewCatalogService(
	categories ports.CategoryRepository,
	services ports.ServiceRepository,
	users ports.UserRepository,
	bookings ports.BookingRepository,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		services:   services,
		users:      users,
		bookings:   bookings,
		log:        log,
	}
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Category name is required")
	}
	if err := s.ensureCategoryNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	return s.categories.Create(ctx, &domain.Category{
		Name:     name,
		ImageURL: in.ImageURL,
	})
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, patch ports.CategoryPatch) (*domain.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewValidationError("Category name is required")
		}
		if err := s.ensureCategoryNameFree(ctx, name, cat.ID); err != nil {
			return nil, err
		}
		cat.Name = name
	}
	if patch.ImageURL != nil {
		cat.ImageURL = *patch.ImageURL
	}

	return s.categories.Update(ctx, cat)
}

// DeleteCategory removes the category, its services, and the bookings of
// those services.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}

	owned, err := s.services.ListByCategory(ctx, id)
	if err != nil {
		return err
	}
	for _, svc := range owned {
		if err := s.bookings.DeleteByService(ctx, svc.ID); err != nil {
			return err
		}
		metrics.CascadeDeletesTotal.WithLabelValues("booking").Inc()
	}
	if err := s.services.DeleteByCategory(ctx, id); err != nil {
		return err
	}
	metrics.CascadeDeletesTotal.WithLabelValues("service").Add(float64(len(owned)))

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("category_id", id).Int("services_removed", len(owned)).Msg("category deleted")
	return nil
}

func (s *CatalogService) ensureCategoryNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrCategoryTaken
	}
	return nil
}

// ── Services ──────────────────────────────────────────────────────────────────

func (s *CatalogService) ListServices(ctx context.Context) ([]*ports.ServiceDetail, error) {
	items, err := s.services.List(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]*ports.ServiceDetail, 0, len(items))
	for _, svc := range items {
		detail, err := s.serviceDetail(ctx, svc)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*ports.ServiceDetail, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.serviceDetail(ctx, svc)
}

func (s *CatalogService) CreateService(ctx context.Context, in ports.ServiceInput) (*ports.ServiceDetail, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("Service title is required")
	}
	if in.Price < 0 {
		return nil, domain.NewValidationError("Price must not be negative")
	}

	// Foreign keys must resolve before anything is written.
	if _, err := s.users.FindByID(ctx, in.ProviderID); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	created, err := s.services.Create(ctx, &domain.Service{
		Title:       title,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		ProviderID:  in.ProviderID,
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("service_id", created.ID).Str("provider_id", created.ProviderID).Msg("service created")
	return s.serviceDetail(ctx, created)
}

func (s *CatalogService) UpdateService(ctx context.Context, id string, patch ports.ServicePatch) (*ports.ServiceDetail, error) {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.NewValidationError("Price must not be negative")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.NewValidationError("Service title is required")
	}
	if patch.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	if patch.ProviderID != nil {
		if _, err := s.users.FindByID(ctx, *patch.ProviderID); err != nil {
			return nil, err
		}
	}

	updated, err := s.services.Patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return s.serviceDetail(ctx, updated)
}

// DeleteService removes the service and all bookings that reference it.
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.bookings.DeleteByService(ctx, id); err != nil {
		return err
	}
	metrics.CascadeDeletesTotal.WithLabelValues("booking").Inc()

	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("service_id", id).Msg("service deleted")
	return nil
}

// serviceDetail resolves the provider and category documents. Dangling
// references are tolerated on reads and render as null sub-documents.
func (s *CatalogService) serviceDetail(ctx context.Context, svc *domain.Service) (*ports.ServiceDetail, error) {
	detail := &ports.ServiceDetail{Service: *svc}

	provider, err := s.users.FindByID(ctx, svc.ProviderID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	detail.Provider = provider

	cat, err := s.categories.FindByID(ctx, svc.CategoryID)
	if err != nil && !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}
	detail.Category = cat

	return detail, nil
}
