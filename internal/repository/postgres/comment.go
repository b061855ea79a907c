package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

// commentNodeSelect loads comments with their author summary and like count
// in one pass. Column aliases follow sqlx's nested struct naming.
const commentNodeSelect = `
	SELECT
		c.id, c.product_id, c.user_id, c.parent_id, c.content, c.created_at,
		u.id                AS "user.id",
		u.name              AS "user.name",
		u.profile_image_url AS "user.profile_image_url",
		u.role              AS "user.role",
		(SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.id) AS like_count
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

// CommentRepository implements domain.CommentRepository for PostgreSQL
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (product_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		comment.ProductID,
		comment.UserID,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)

	return translateError(err)
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, product_id, user_id, parent_id, content, created_at
		FROM comments
		WHERE id = $1
	`

	var comment domain.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		return nil, translateError(err)
	}

	return &comment, nil
}

// ListRoots returns the root comments of a product, newest first
func (r *CommentRepository) ListRoots(ctx context.Context, productID uuid.UUID) ([]*domain.CommentNode, error) {
	query := commentNodeSelect + `
		WHERE c.product_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id
	`

	nodes := []*domain.CommentNode{}
	if err := r.db.SelectContext(ctx, &nodes, query, productID); err != nil {
		return nil, err
	}

	return nodes, nil
}

// ListReplies returns the replies of all given parents, newest first
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.CommentNode, error) {
	nodes := []*domain.CommentNode{}
	if len(parentIDs) == 0 {
		return nodes, nil
	}

	ids := make([]string, len(parentIDs))
	for i, id := range parentIDs {
		ids[i] = id.String()
	}

	query := commentNodeSelect + `
		WHERE c.parent_id = ANY($1::uuid[])
		ORDER BY c.created_at DESC, c.id
	`

	if err := r.db.SelectContext(ctx, &nodes, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	return nodes, nil
}

var _ domain.CommentRepository = (*CommentRepository)(nil)
