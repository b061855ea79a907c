package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

// UserRepository implements domain.UserRepository for PostgreSQL
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	query := `
		INSERT INTO users (name, email, profile_image_url, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.ProfileImageURL,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if err := translateError(err); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetSummary returns the public summary of a user
func (r *UserRepository) GetSummary(ctx context.Context, id uuid.UUID) (*domain.UserSummary, error) {
	query := `SELECT id, name, profile_image_url, role FROM users WHERE id = $1`

	var summary domain.UserSummary
	if err := r.db.GetContext(ctx, &summary, query, id); err != nil {
		return nil, translateError(err)
	}

	return &summary, nil
}

// Exists reports whether a user with the given ID exists
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, err
	}
	return exists, nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
