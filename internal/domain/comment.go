package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Comment is a node of a product discussion. A nil ParentID marks a root
// comment; a reply always points at a root of the same product.
type Comment struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ParentID  *uuid.UUID `json:"parent_id" db:"parent_id"`
	Content   string     `json:"content" db:"content"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the comment is attached directly to a product
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// CommentNode is a comment enriched with its author and like count
type CommentNode struct {
	Comment
	User      UserSummary `json:"user" db:"user"`
	LikeCount int         `json:"like_count" db:"like_count"`
}

// CommentThread is a root comment with its direct replies, newest first
type CommentThread struct {
	CommentNode
	Replies []*CommentNode `json:"replies"`
}

// CommentSummary is the comment projection embedded in expanded reports
type CommentSummary struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	User    UserBrief `json:"user"`
}

// CommentLike records that a user likes a comment. Presence of the row is
// the liked state.
type CommentLike struct {
	CommentID uuid.UUID `json:"comment_id" db:"comment_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LikeState is the result of a like toggle
type LikeState struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"is_liked"`
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create inserts a comment and fills ID and CreatedAt
	Create(ctx context.Context, comment *Comment) error

	// GetByID retrieves a comment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)

	// ListRoots returns the root comments of a product, newest first
	ListRoots(ctx context.Context, productID uuid.UUID) ([]*CommentNode, error)

	// ListReplies returns the replies of the given roots, newest first
	ListReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*CommentNode, error)
}

// LikeRepository defines the interface for comment like data access
type LikeRepository interface {
	// Toggle removes the (comment, user) like if present and inserts it
	// otherwise, in one statement. It returns the state after the toggle.
	// A concurrent insert by the same user yields ErrConflict.
	Toggle(ctx context.Context, commentID, userID uuid.UUID) (bool, error)

	// IsLiked reports whether the user currently likes the comment
	IsLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error)

	// Count returns the number of likes of a comment
	Count(ctx context.Context, commentID uuid.UUID) (int, error)
}
