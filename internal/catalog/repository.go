package catalog

import (
	"context"

	"github.com/shopgrove/marketplace/internal/domain"
)

// Repository defines the interface for catalog data operations.
type Repository interface {
	// ListCategoryPreviews returns one representative product image per
	// distinct category.
	ListCategoryPreviews(ctx context.Context) ([]domain.CategoryPreview, error)
	// ListRandomProducts returns up to limit products in random order.
	ListRandomProducts(ctx context.Context, limit int) ([]domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetProductByASIN(ctx context.Context, asin string) (*domain.Product, error)
	// ViewProduct atomically increments the click counter and returns the
	// updated product.
	ViewProduct(ctx context.Context, asin string) (*domain.Product, error)

	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, asin string) error
}

// ProductFilter represents filter criteria for listing products.
type ProductFilter struct {
	Category *string
	SellerID *string
}
