package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/delivery/http/request"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/response"
	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	"github.com/Pesokrava/product_marketplace/internal/usecase/comment"
)

// CommentHandler handles HTTP requests for product discussions
type CommentHandler struct {
	service *comment.Service
	logger  *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service *comment.Service, log *logger.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  log,
	}
}

// CreateCommentRequest represents the request body for a comment or a reply
type CreateCommentRequest struct {
	Content string    `json:"content" validate:"required,notblank,max=5000"`
	UserID  uuid.UUID `json:"user_id" validate:"required"`
}

// ToggleLikeRequest represents the request body for a like toggle
type ToggleLikeRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// ListByProduct handles GET /api/v1/products/:productId/comments
// @Summary List the discussion of a product
// @Description Root comments newest first, each with author, like count and replies
// @Tags Comments
// @Produce json
// @Param productId path string true "Product ID (UUID)"
// @Success 200 {object} response.Envelope{data=[]domain.CommentThread} "Comment threads"
// @Failure 400 {object} response.ErrorBody "Invalid product ID"
// @Failure 404 {object} response.ErrorBody "Product not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products/{productId}/comments [get]
func (h *CommentHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "productId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	threads, err := h.service.ListComments(r.Context(), productID)
	if err != nil {
		h.handleError(w, err, "Product not found")
		return
	}

	response.Success(w, threads)
}

// Create handles POST /api/v1/products/:productId/comments
// @Summary Comment on a product
// @Tags Comments
// @Accept json
// @Produce json
// @Param productId path string true "Product ID (UUID)"
// @Param comment body CreateCommentRequest true "Comment"
// @Success 201 {object} response.Envelope{data=domain.CommentNode} "Comment created"
// @Failure 400 {object} response.ErrorBody "Invalid request"
// @Failure 404 {object} response.ErrorBody "Product or author not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products/{productId}/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "productId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req CreateCommentRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	node, err := h.service.CreateComment(r.Context(), productID, req.UserID, req.Content)
	if err != nil {
		h.handleError(w, err, "Product or author not found")
		return
	}

	response.Created(w, node)
}

// Reply handles POST /api/v1/comments/:commentId/replies
// @Summary Reply to a comment
// @Description Replies to a reply are attached to the thread root
// @Tags Comments
// @Accept json
// @Produce json
// @Param commentId path string true "Parent comment ID (UUID)"
// @Param reply body CreateCommentRequest true "Reply"
// @Success 201 {object} response.Envelope{data=domain.CommentNode} "Reply created"
// @Failure 400 {object} response.ErrorBody "Invalid request"
// @Failure 404 {object} response.ErrorBody "Parent comment or author not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /comments/{commentId}/replies [post]
func (h *CommentHandler) Reply(w http.ResponseWriter, r *http.Request) {
	parentID, err := request.GetUUIDParam(r, "commentId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req CreateCommentRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	node, err := h.service.CreateReply(r.Context(), parentID, req.UserID, req.Content)
	if err != nil {
		h.handleError(w, err, "Comment or author not found")
		return
	}

	response.Created(w, node)
}

// ToggleLike handles POST /api/v1/comments/:commentId/like
// @Summary Like or unlike a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param commentId path string true "Comment ID (UUID)"
// @Param like body ToggleLikeRequest true "Liking user"
// @Success 200 {object} response.Envelope{data=domain.LikeState} "State after the toggle"
// @Failure 400 {object} response.ErrorBody "Invalid request"
// @Failure 404 {object} response.ErrorBody "Comment not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /comments/{commentId}/like [post]
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	commentID, err := request.GetUUIDParam(r, "commentId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req ToggleLikeRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.service.ToggleLike(r.Context(), commentID, req.UserID)
	if err != nil {
		h.handleError(w, err, "Comment not found")
		return
	}

	response.Success(w, state)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *CommentHandler) handleError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in comment handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
