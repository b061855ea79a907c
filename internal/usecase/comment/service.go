package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
)

// MaxContentLength bounds the size of a comment body
const MaxContentLength = 5000

// ProductLookup checks product existence
type ProductLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuthorLookup resolves author summaries
type AuthorLookup interface {
	GetSummary(ctx context.Context, id uuid.UUID) (*domain.UserSummary, error)
}

// Service builds product discussions and toggles comment likes
type Service struct {
	comments domain.CommentRepository
	likes    domain.LikeRepository
	products ProductLookup
	authors  AuthorLookup
	logger   *logger.Logger
}

// NewService creates a new comment service
func NewService(
	comments domain.CommentRepository,
	likes domain.LikeRepository,
	products ProductLookup,
	authors AuthorLookup,
	log *logger.Logger,
) *Service {
	return &Service{
		comments: comments,
		likes:    likes,
		products: products,
		authors:  authors,
		logger:   log,
	}
}

// ListComments returns the discussion of a product: root comments newest
// first, each with its replies newest first
func (s *Service) ListComments(ctx context.Context, productID uuid.UUID) ([]*domain.CommentThread, error) {
	if productID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}

	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	roots, err := s.comments.ListRoots(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to list root comments", err)
		return nil, err
	}

	threads := make([]*domain.CommentThread, 0, len(roots))
	if len(roots) == 0 {
		return threads, nil
	}

	rootIDs := make([]uuid.UUID, len(roots))
	for i, root := range roots {
		rootIDs[i] = root.ID
	}

	replies, err := s.comments.ListReplies(ctx, rootIDs)
	if err != nil {
		s.logger.Error("Failed to list replies", err)
		return nil, err
	}

	// Replies arrive newest first; appending keeps that order per parent
	byParent := make(map[uuid.UUID][]*domain.CommentNode, len(roots))
	for _, reply := range replies {
		if reply.ParentID == nil {
			continue
		}
		byParent[*reply.ParentID] = append(byParent[*reply.ParentID], reply)
	}

	for _, root := range roots {
		children, ok := byParent[root.ID]
		if !ok {
			children = []*domain.CommentNode{}
		}
		threads = append(threads, &domain.CommentThread{
			CommentNode: *root,
			Replies:     children,
		})
	}

	return threads, nil
}

// CreateComment adds a root comment to a product
func (s *Service) CreateComment(ctx context.Context, productID, authorID uuid.UUID, content string) (*domain.CommentNode, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if productID == uuid.Nil || authorID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}

	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	author, err := s.authors.GetSummary(ctx, authorID)
	if err != nil {
		return nil, s.lookupError("author", authorID, err)
	}

	comment := &domain.Comment{
		ProductID: productID,
		UserID:    authorID,
		Content:   content,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("Failed to create comment", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"comment_id": comment.ID,
		"product_id": productID,
		"user_id":    authorID,
	}).Info("Comment created successfully")

	return &domain.CommentNode{Comment: *comment, User: *author}, nil
}

// CreateReply answers an existing comment. The product is taken from the
// parent. Replying to a reply attaches the new comment to that reply's root
// so threads never grow past two levels.
func (s *Service) CreateReply(ctx context.Context, parentID, authorID uuid.UUID, content string) (*domain.CommentNode, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if parentID == uuid.Nil || authorID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}

	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		return nil, s.lookupError("parent comment", parentID, err)
	}

	rootID := parent.ID
	if !parent.IsRoot() {
		rootID = *parent.ParentID
		s.logger.WithFields(map[string]interface{}{
			"parent_id": parentID,
			"root_id":   rootID,
		}).Debug("Reply to a reply attached to thread root")
	}

	author, err := s.authors.GetSummary(ctx, authorID)
	if err != nil {
		return nil, s.lookupError("author", authorID, err)
	}

	reply := &domain.Comment{
		ProductID: parent.ProductID,
		UserID:    authorID,
		ParentID:  &rootID,
		Content:   content,
	}

	if err := s.comments.Create(ctx, reply); err != nil {
		s.logger.Error("Failed to create reply", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"comment_id": reply.ID,
		"parent_id":  rootID,
		"product_id": reply.ProductID,
	}).Info("Reply created successfully")

	return &domain.CommentNode{Comment: *reply, User: *author}, nil
}

// ToggleLike likes the comment for the user, or removes the like if it
// already exists, and returns the resulting state.
func (s *Service) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (*domain.LikeState, error) {
	if commentID == uuid.Nil || userID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}

	liked, err := s.likes.Toggle(ctx, commentID, userID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		// A concurrent toggle of the same user inserted first; report
		// whatever the store holds now
		s.logger.WithFields(map[string]interface{}{
			"comment_id": commentID,
			"user_id":    userID,
		}).Debug("Concurrent like detected, re-reading state")

		liked, err = s.likes.IsLiked(ctx, commentID, userID)
		if err != nil {
			s.logger.Error("Failed to re-read like state", err)
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrNotFound
	default:
		s.logger.Error("Failed to toggle like", err)
		return nil, err
	}

	count, err := s.likes.Count(ctx, commentID)
	if err != nil {
		s.logger.Error("Failed to count likes", err)
		return nil, err
	}

	return &domain.LikeState{Likes: count, IsLiked: liked}, nil
}

func (s *Service) requireProduct(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to check product", err)
		return err
	}
	if !exists {
		s.logger.Debugf("Product not found: %s", productID)
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) lookupError(what string, id uuid.UUID, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debugf("%s not found: %s", what, id)
		return domain.ErrNotFound
	}
	s.logger.Errorf(err, "Failed to load %s %s", what, id)
	return fmt.Errorf("load %s: %w", what, err)
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > MaxContentLength {
		return "", domain.ErrInvalidInput
	}
	return content, nil
}
