// Package catalog provides HTTP handlers and business logic for the product
// catalog: storefront browsing, product views, and seller-side management.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopgrove/marketplace/internal/audit"
	"github.com/shopgrove/marketplace/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const suggestionCount = 9

// Service implements catalog business logic.
type Service struct {
	repo     Repository
	recorder audit.Recorder
}

// NewService creates a new catalog service. recorder may be nil, in which
// case no product-view audit events are emitted.
func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
	}
}

// HomeCategories returns one preview per distinct category with a
// human-readable display name.
func (s *Service) HomeCategories(ctx context.Context) ([]domain.CategoryPreview, error) {
	previews, err := s.repo.ListCategoryPreviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list category previews: %w", err)
	}

	titleCaser := cases.Title(language.English)
	for i := range previews {
		display := strings.ReplaceAll(previews[i].Category, "_", " ")
		previews[i].DisplayName = titleCaser.String(display)
	}
	return previews, nil
}

// Suggestions returns a random product sample for the storefront.
func (s *Service) Suggestions(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListRandomProducts(ctx, suggestionCount)
}

// ListProducts returns products matching the filter.
func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// ViewProduct returns a product by ASIN, incrementing its click counter and
// emitting a product-view audit event attributed to viewerID. The audit
// emission never affects the returned product or error.
func (s *Service) ViewProduct(ctx context.Context, asin, viewerID string) (*domain.Product, error) {
	product, err := s.repo.ViewProduct(ctx, asin)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, audit.ProductViewEvent(viewerID, product))
	}
	return product, nil
}

// CreateProduct adds a product. Sellers always own what they create; admins
// may create products on behalf of any seller.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product, actorID string, actorRole domain.Role) error {
	if actorRole == domain.RoleSeller {
		product.SellerID = &actorID
	}
	return s.repo.CreateProduct(ctx, product)
}

// UpdateProduct modifies a product. A seller may only modify their own.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product, actorID string, actorRole domain.Role) error {
	if err := s.checkOwnership(ctx, product.ASIN, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, product)
}

// DeleteProduct removes a product. A seller may only remove their own.
func (s *Service) DeleteProduct(ctx context.Context, asin, actorID string, actorRole domain.Role) error {
	if err := s.checkOwnership(ctx, asin, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.DeleteProduct(ctx, asin)
}

func (s *Service) checkOwnership(ctx context.Context, asin, actorID string, actorRole domain.Role) error {
	if actorRole == domain.RoleAdmin {
		return nil
	}

	existing, err := s.repo.GetProductByASIN(ctx, asin)
	if err != nil {
		return err
	}
	if existing.SellerID == nil || *existing.SellerID != actorID {
		return ErrNotProductOwner
	}
	return nil
}
