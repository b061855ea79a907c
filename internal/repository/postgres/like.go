package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

// LikeRepository implements domain.LikeRepository for PostgreSQL
type LikeRepository struct {
	db *sqlx.DB
}

// NewLikeRepository creates a new PostgreSQL like repository
func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle flips the like in a single statement. The insert branch only runs
// when the delete branch removed nothing; a concurrent insert for the same
// pair surfaces as a unique violation, translated to domain.ErrConflict.
func (r *LikeRepository) Toggle(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM comment_likes
			WHERE comment_id = $1 AND user_id = $2
			RETURNING 1
		), added AS (
			INSERT INTO comment_likes (comment_id, user_id)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM removed)
			RETURNING 1
		)
		SELECT EXISTS(SELECT 1 FROM added)
	`

	var liked bool
	if err := r.db.GetContext(ctx, &liked, query, commentID, userID); err != nil {
		return false, translateError(err)
	}

	return liked, nil
}

// IsLiked reports whether the user currently likes the comment
func (r *LikeRepository) IsLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	var liked bool
	query := `SELECT EXISTS(SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)`
	if err := r.db.GetContext(ctx, &liked, query, commentID, userID); err != nil {
		return false, err
	}
	return liked, nil
}

// Count returns the number of likes of a comment
func (r *LikeRepository) Count(ctx context.Context, commentID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`
	if err := r.db.GetContext(ctx, &count, query, commentID); err != nil {
		return 0, err
	}
	return count, nil
}

var _ domain.LikeRepository = (*LikeRepository)(nil)
