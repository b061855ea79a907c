package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User roles known to the marketplace
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// User is the identity record owned by the user service. Only the
// fields needed for author and moderator summaries are mapped.
type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty" db:"profile_image_url"`
	Role            string    `json:"role" db:"role"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the author projection shown next to comments and reports
type UserSummary struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	ProfileImageURL *string   `json:"profile_image_url" db:"profile_image_url"`
	Role            string    `json:"role" db:"role"`
}

// UserBrief is the minimal user projection
type UserBrief struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// UserRepository is the identity lookup consumed by the discussion and
// moderation services
type UserRepository interface {
	// Create inserts a user; used for seeding and tests
	Create(ctx context.Context, user *User) error

	// GetSummary returns the public summary of a user
	GetSummary(ctx context.Context, id uuid.UUID) (*UserSummary, error)

	// Exists reports whether a user with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
