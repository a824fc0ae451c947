// Package postgres provides the PostgreSQL implementation of the catalog
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopgrove/marketplace/internal/catalog"
	"github.com/shopgrove/marketplace/internal/domain"
)

const uniqueViolation = "23505"

const productColumns = `asin, title, description, category, price, image_url, seller_id, clicks, in_stock, created_at, updated_at`

// Repository implements catalog.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListCategoryPreviews returns one product image per distinct category.
func (r *Repository) ListCategoryPreviews(ctx context.Context) ([]domain.CategoryPreview, error) {
	query := `
		SELECT DISTINCT ON (category) category, image_url
		FROM products
		ORDER BY category, asin
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list category previews: %w", err)
	}
	defer rows.Close()

	previews := make([]domain.CategoryPreview, 0)
	for rows.Next() {
		var p domain.CategoryPreview
		if err := rows.Scan(&p.Category, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan category preview: %w", err)
		}
		previews = append(previews, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category previews: %w", err)
	}
	return previews, nil
}

// ListRandomProducts returns up to limit products in random order.
func (r *Repository) ListRandomProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		ORDER BY RANDOM()
		LIMIT $1
	`, productColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list random products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListProducts returns products matching the filter, newest first.
func (r *Repository) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)

	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		conditions = append(conditions, fmt.Sprintf("seller_id = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC, asin"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetProductByASIN retrieves a product by its ASIN.
func (r *Repository) GetProductByASIN(ctx context.Context, asin string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE asin = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRow(ctx, query, asin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by asin: %w", err)
	}
	return product, nil
}

// ViewProduct increments the click counter and returns the updated product
// in a single statement.
func (r *Repository) ViewProduct(ctx context.Context, asin string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET clicks = clicks + 1, updated_at = now()
		WHERE asin = $1
		RETURNING %s
	`, productColumns)

	product, err := scanProduct(r.db.QueryRow(ctx, query, asin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("view product: %w", err)
	}
	return product, nil
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (asin, title, description, category, price, image_url, seller_id, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING clicks, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.ASIN,
		product.Title,
		product.Description,
		product.Category,
		product.Price,
		product.ImageURL,
		product.SellerID,
		product.InStock,
	).Scan(&product.Clicks, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return catalog.ErrProductExists
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct modifies a product's mutable fields.
func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, category = $4, price = $5, image_url = $6, in_stock = $7, updated_at = now()
		WHERE asin = $1
		RETURNING seller_id, clicks, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.ASIN,
		product.Title,
		product.Description,
		product.Category,
		product.Price,
		product.ImageURL,
		product.InStock,
	).Scan(&product.SellerID, &product.Clicks, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product.
func (r *Repository) DeleteProduct(ctx context.Context, asin string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE asin = $1`, asin)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ASIN,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.ImageURL,
		&p.SellerID,
		&p.Clicks,
		&p.InStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
