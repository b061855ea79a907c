package product

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	pkgvalidator "github.com/Pesokrava/product_marketplace/internal/pkg/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Service handles product business logic
type Service struct {
	repo      domain.ProductRepository
	publisher EventPublisher
	subject   string
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new product service
func NewService(repo domain.ProductRepository, publisher EventPublisher, subject string, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		subject:   subject,
		validate:  pkgvalidator.Get(),
		logger:    log,
	}
}

// Create creates a new product. New products await approval.
func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"fields": pkgvalidator.Fields(err),
		}).Debug("Product validation failed")
		return domain.ErrInvalidInput
	}

	product.IsApproved = false
	product.Upvotes = 0
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product owner not found: %s", product.UserID)
			return err
		}
		s.logger.Error("Failed to create product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created successfully")

	return nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logLookup(id, err)
		return nil, err
	}

	return product, nil
}

// List retrieves a paginated list of products. A blank category means all
// categories.
func (s *Service) List(ctx context.Context, category *string, limit, offset int) ([]*domain.Product, int, error) {
	var filter domain.ProductFilter
	if category != nil {
		if trimmed := strings.TrimSpace(*category); trimmed != "" {
			filter.Category = &trimmed
		}
	}

	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	return products, total, nil
}

// SetApproval approves or withdraws a product and notifies its owner
func (s *Service) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*domain.Product, error) {
	product, err := s.repo.SetApproval(ctx, id, approved)
	if err != nil {
		s.logLookup(id, err)
		return nil, err
	}

	s.publishApprovalChanged(product)

	s.logger.WithFields(map[string]interface{}{
		"product_id":  product.ID,
		"is_approved": approved,
	}).Info("Product approval updated")

	return product, nil
}

// Upvote increments the upvote counter of a product
func (s *Service) Upvote(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.Upvote(ctx, id)
	if err != nil {
		s.logLookup(id, err)
		return nil, err
	}

	return product, nil
}

func (s *Service) logLookup(id uuid.UUID, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debugf("Product not found: %s", id)
		return
	}
	s.logger.Errorf(err, "Product operation failed for %s", id)
}

// publishApprovalChanged publishes an approval event (non-blocking)
func (s *Service) publishApprovalChanged(product *domain.Product) {
	if s.publisher == nil {
		return
	}

	productID := product.ID
	approved := product.IsApproved
	event := domain.ModerationEvent{
		EventType: domain.EventProductApprovalChanged,
		Timestamp: time.Now().UTC(),
		ProductID: &productID,
		Approved:  &approved,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for product %s", productID)
		return
	}

	go func() {
		if err := s.publisher.Publish(context.Background(), s.subject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for product %s", productID)
		}
	}()
}
