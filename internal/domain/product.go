package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a marketplace listing
type Product struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id" validate:"required"`
	Name        string         `json:"name" db:"name" validate:"required,min=1,max=255"`
	Tagline     *string        `json:"tagline,omitempty" db:"tagline" validate:"omitempty,max=255"`
	Description *string        `json:"description,omitempty" db:"description"`
	WebsiteURL  *string        `json:"website_url,omitempty" db:"website_url" validate:"omitempty,url"`
	Category    string         `json:"category" db:"category" validate:"required,min=1,max=100"`
	Images      pq.StringArray `json:"images" db:"images" validate:"dive,url"`
	Upvotes     int            `json:"upvotes" db:"upvotes"`
	IsApproved  bool           `json:"is_approved" db:"is_approved"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ProductSummary is the product projection embedded in expanded reports
type ProductSummary struct {
	ID     uuid.UUID      `json:"id" db:"id"`
	Name   string         `json:"name" db:"name"`
	Images pq.StringArray `json:"images" db:"images"`
}

// ProductFilter narrows product listings
type ProductFilter struct {
	Category *string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Exists reports whether a product with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// List retrieves a paginated list of products matching filter, newest first
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*Product, error)

	// Count returns the number of products matching filter
	Count(ctx context.Context, filter ProductFilter) (int, error)

	// SetApproval sets the approval flag of a product
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*Product, error)

	// Upvote atomically increments the upvote counter
	Upvote(ctx context.Context, id uuid.UUID) (*Product, error)
}
