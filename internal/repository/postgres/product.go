package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

const productColumns = `id, user_id, name, tagline, description, website_url, category,
		images, upvotes, is_approved, created_at, updated_at`

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product. New products await approval.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (user_id, name, tagline, description, website_url, category, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, upvotes, is_approved, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.UserID,
		product.Name,
		product.Tagline,
		product.Description,
		product.WebsiteURL,
		product.Category,
		product.Images,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID,
		&product.Upvotes,
		&product.IsApproved,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, translateError(err)
	}

	return &product, nil
}

// Exists reports whether a product with the given ID exists
func (r *ProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, err
	}
	return exists, nil
}

// productWhere renders the filter as a WHERE clause and its arguments
func productWhere(filter domain.ProductFilter) (string, []interface{}) {
	if filter.Category == nil {
		return "", []interface{}{}
	}
	return ` WHERE category = $1`, []interface{}{*filter.Category}
}

// List retrieves a paginated list of products
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]*domain.Product, error) {
	where, args := productWhere(filter)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	return products, nil
}

// Count returns the number of products matching filter
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	where, args := productWhere(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`+where, args...); err != nil {
		return 0, err
	}
	return count, nil
}

// SetApproval sets the approval flag of a product
func (r *ProductRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*domain.Product, error) {
	query := `
		UPDATE products
		SET is_approved = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + productColumns

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, approved, time.Now(), id); err != nil {
		return nil, translateError(err)
	}

	return &product, nil
}

// Upvote atomically increments the upvote counter
func (r *ProductRepository) Upvote(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		UPDATE products
		SET upvotes = upvotes + 1, updated_at = $1
		WHERE id = $2
		RETURNING ` + productColumns

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, time.Now(), id); err != nil {
		return nil, translateError(err)
	}

	return &product, nil
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
