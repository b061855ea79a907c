package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/delivery/http/request"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/response"
	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	"github.com/Pesokrava/product_marketplace/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=255"`
	Tagline     *string   `json:"tagline,omitempty"`
	Description *string   `json:"description,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	Category    string    `json:"category" validate:"required"`
	Images      []string  `json:"images,omitempty"`
}

// SetApprovalRequest represents the request body for approving a product
type SetApprovalRequest struct {
	IsApproved *bool `json:"is_approved" validate:"required"`
}

// Create handles POST /api/v1/products
// @Summary Create a new product
// @Description New products await moderator approval
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} response.Envelope{data=domain.Product} "Product created successfully"
// @Failure 400 {object} response.ErrorBody "Invalid request body"
// @Failure 404 {object} response.ErrorBody "Owner not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := &domain.Product{
		UserID:      req.UserID,
		Name:        req.Name,
		Tagline:     req.Tagline,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		Category:    req.Category,
		Images:      req.Images,
	}

	if err := h.service.Create(r.Context(), p); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, p)
}

// GetByID handles GET /api/v1/products/:productId
// @Summary Get a product by ID
// @Tags Products
// @Produce json
// @Param productId path string true "Product ID (UUID)"
// @Success 200 {object} response.Envelope{data=domain.Product} "Product details"
// @Failure 400 {object} response.ErrorBody "Invalid product ID"
// @Failure 404 {object} response.ErrorBody "Product not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products/{productId} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "productId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// List handles GET /api/v1/products
// @Summary List all products
// @Description Get a paginated list of products, optionally limited to one category
// @Tags Products
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} response.Envelope{data=[]domain.Product} "Paginated list of products"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)
	category := request.GetOptionalQuery(r, "category")

	products, total, err := h.service.List(r.Context(), category, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// SetApproval handles PUT /api/v1/products/:productId/approval
// @Summary Approve or withdraw a product
// @Tags Products
// @Accept json
// @Produce json
// @Param productId path string true "Product ID (UUID)"
// @Param approval body SetApprovalRequest true "Approval flag"
// @Success 200 {object} response.Envelope{data=domain.Product} "Updated product"
// @Failure 400 {object} response.ErrorBody "Invalid request"
// @Failure 404 {object} response.ErrorBody "Product not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products/{productId}/approval [put]
func (h *ProductHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "productId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req SetApprovalRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.service.SetApproval(r.Context(), id, *req.IsApproved)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// Upvote handles POST /api/v1/products/:productId/upvote
// @Summary Upvote a product
// @Tags Products
// @Produce json
// @Param productId path string true "Product ID (UUID)"
// @Success 200 {object} response.Envelope{data=domain.Product} "Updated product"
// @Failure 400 {object} response.ErrorBody "Invalid product ID"
// @Failure 404 {object} response.ErrorBody "Product not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /products/{productId}/upvote [post]
func (h *ProductHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "productId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.Upvote(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
