package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	pkgvalidator "github.com/Pesokrava/product_marketplace/internal/pkg/validator"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Throttle bounds how many reports one user may submit
type Throttle interface {
	Allow(ctx context.Context, reporterID uuid.UUID) (bool, error)
}

// CreateInput is a report submission
type CreateInput struct {
	Type         domain.ReportType `validate:"required,report_type"`
	ReportedByID uuid.UUID
	ProductID    *uuid.UUID
	CommentID    *uuid.UUID
	Reason       *string `validate:"omitempty,max=1000"`
}

// rejectionHandler applies the side effect of rejecting a report on its
// target, inside the resolution transaction
type rejectionHandler func(ctx context.Context, tx domain.ModerationTx, report *domain.Report) error

// Service handles the report lifecycle
type Service struct {
	reports    domain.ReportRepository
	store      domain.ModerationStore
	throttle   Throttle
	publisher  EventPublisher
	subject    string
	rejections map[domain.ReportType]rejectionHandler
	validate   *validator.Validate
	logger     *logger.Logger
	now        func() time.Time
}

// NewService creates a new report service. A nil throttle accepts every
// submission.
func NewService(
	reports domain.ReportRepository,
	store domain.ModerationStore,
	throttle Throttle,
	publisher EventPublisher,
	subject string,
	log *logger.Logger,
) *Service {
	s := &Service{
		reports:   reports,
		store:     store,
		throttle:  throttle,
		publisher: publisher,
		subject:   subject,
		validate:  pkgvalidator.Get(),
		logger:    log,
		now:       time.Now,
	}
	s.rejections = map[domain.ReportType]rejectionHandler{
		domain.ReportTypeProduct: s.rejectProduct,
		domain.ReportTypeComment: s.rejectComment,
	}
	return s
}

// Create submits a pending report and returns it expanded
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.ReportDetails, error) {
	if err := s.validate.Struct(in); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"fields": pkgvalidator.Fields(err),
		}).Debug("Report validation failed")
		return nil, domain.ErrInvalidInput
	}
	if err := checkTarget(in); err != nil {
		return nil, err
	}

	if err := s.checkThrottle(ctx, in.ReportedByID); err != nil {
		return nil, err
	}

	report := &domain.Report{
		Type:         in.Type,
		ProductID:    in.ProductID,
		CommentID:    in.CommentID,
		ReportedByID: in.ReportedByID,
		Reason:       in.Reason,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Report target or reporter not found for %s report", in.Type)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("Failed to create report", err)
		return nil, err
	}

	details, err := s.reports.GetDetails(ctx, report.ID)
	if err != nil {
		s.logger.Errorf(err, "Failed to load created report %s", report.ID)
		return nil, fmt.Errorf("load created report: %w", err)
	}

	s.publishEvent(domain.EventReportCreated, report, report.ReportedByID)

	s.logger.WithFields(map[string]interface{}{
		"report_id":      report.ID,
		"type":           report.Type,
		"reported_by_id": report.ReportedByID,
	}).Info("Report created successfully")

	return details, nil
}

// List returns expanded reports newest first, optionally of a single type
func (s *Service) List(ctx context.Context, reportType *domain.ReportType) ([]*domain.ReportDetails, error) {
	if reportType != nil && !reportType.Valid() {
		return nil, domain.ErrInvalidInput
	}

	reports, err := s.reports.List(ctx, domain.ReportFilter{Type: reportType})
	if err != nil {
		s.logger.Error("Failed to list reports", err)
		return nil, err
	}

	return reports, nil
}

// GetDetails returns an expanded report
func (s *Service) GetDetails(ctx context.Context, id uuid.UUID) (*domain.ReportDetails, error) {
	if id == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}

	details, err := s.reports.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Report not found: %s", id)
		} else {
			s.logger.Error("Failed to get report", err)
		}
		return nil, err
	}

	return details, nil
}

// Resolve records a moderator decision on a pending report. Rejection also
// acts on the reported entity; the status change and the side effect commit
// together or not at all.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, status domain.ReportStatus, resolverID uuid.UUID) (*domain.ReportDetails, error) {
	if id == uuid.Nil || resolverID == uuid.Nil || !status.Terminal() {
		return nil, domain.ErrInvalidInput
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Report not found: %s", id)
		} else {
			s.logger.Error("Failed to get report", err)
		}
		return nil, err
	}

	if report.Status != domain.ReportStatusPending {
		s.logger.WithFields(map[string]interface{}{
			"report_id": id,
			"status":    report.Status,
		}).Debug("Report already resolved")
		return nil, domain.ErrConflict
	}

	var reject rejectionHandler
	if status == domain.ReportStatusRejected {
		h, ok := s.rejections[report.Type]
		if !ok {
			s.logger.Errorf(domain.ErrInternal, "No rejection handler for report type %s", report.Type)
			return nil, domain.ErrInternal
		}
		reject = h
	}

	resolution := domain.Resolution{
		ReportID:     report.ID,
		Status:       status,
		ResolvedByID: resolverID,
		ResolvedAt:   s.now().UTC(),
	}

	err = s.store.WithinTx(ctx, func(tx domain.ModerationTx) error {
		if err := tx.MarkResolved(ctx, resolution); err != nil {
			return err
		}
		if reject != nil {
			return reject(ctx, tx, report)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
			s.logger.WithFields(map[string]interface{}{
				"report_id": id,
				"error":     err.Error(),
			}).Debug("Report resolution rejected")
		default:
			s.logger.Errorf(err, "Failed to resolve report %s", id)
		}
		return nil, err
	}

	report.Status = status
	report.ResolvedByID = &resolverID
	report.ResolvedAt = &resolution.ResolvedAt

	details, err := s.reports.GetDetails(ctx, id)
	if err != nil {
		s.logger.Errorf(err, "Failed to load resolved report %s", id)
		return nil, fmt.Errorf("load resolved report: %w", err)
	}

	s.publishEvent(domain.EventReportResolved, report, resolverID)

	s.logger.WithFields(map[string]interface{}{
		"report_id":      id,
		"status":         status,
		"resolved_by_id": resolverID,
	}).Info("Report resolved successfully")

	return details, nil
}

func (s *Service) rejectProduct(ctx context.Context, tx domain.ModerationTx, report *domain.Report) error {
	if report.ProductID == nil {
		return fmt.Errorf("product report %s without product: %w", report.ID, domain.ErrInternal)
	}
	return tx.DisapproveProduct(ctx, *report.ProductID)
}

// rejectComment deletes the comment thread. A comment that is already gone
// leaves nothing to do.
func (s *Service) rejectComment(ctx context.Context, tx domain.ModerationTx, report *domain.Report) error {
	if report.CommentID == nil {
		return fmt.Errorf("comment report %s without comment: %w", report.ID, domain.ErrInternal)
	}

	removed, err := tx.DeleteCommentThread(ctx, *report.CommentID)
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"report_id":  report.ID,
		"comment_id": *report.CommentID,
		"removed":    removed,
	}).Debug("Comment thread removed")

	return nil
}

func (s *Service) checkThrottle(ctx context.Context, reporterID uuid.UUID) error {
	if s.throttle == nil {
		return nil
	}

	allowed, err := s.throttle.Allow(ctx, reporterID)
	if err != nil {
		s.logger.Warnf("Report throttle unavailable for user %s: %v", reporterID, err)
		return nil
	}
	if !allowed {
		s.logger.Debugf("Report rate limit reached for user %s", reporterID)
		return domain.ErrRateLimited
	}
	return nil
}

// checkTarget enforces that exactly the reference matching the type is set
func checkTarget(in CreateInput) error {
	if in.ReportedByID == uuid.Nil {
		return domain.ErrInvalidInput
	}

	switch in.Type {
	case domain.ReportTypeProduct:
		if in.ProductID == nil || *in.ProductID == uuid.Nil || in.CommentID != nil {
			return domain.ErrInvalidInput
		}
	case domain.ReportTypeComment:
		if in.CommentID == nil || *in.CommentID == uuid.Nil || in.ProductID != nil {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// publishEvent publishes a report event (non-blocking)
func (s *Service) publishEvent(eventType string, report *domain.Report, actorID uuid.UUID) {
	if s.publisher == nil {
		return
	}

	reportID := report.ID
	event := domain.ModerationEvent{
		EventType:  eventType,
		Timestamp:  s.now().UTC(),
		ReportID:   &reportID,
		ReportType: report.Type,
		Status:     report.Status,
		ProductID:  report.ProductID,
		CommentID:  report.CommentID,
		ActorID:    &actorID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for report %s", report.ID)
		return
	}

	go func() {
		if err := s.publisher.Publish(context.Background(), s.subject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for report %s", reportID)
		}
	}()
}
