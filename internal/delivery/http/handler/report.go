package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/delivery/http/request"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/response"
	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	"github.com/Pesokrava/product_marketplace/internal/usecase/report"
)

// ReportHandler handles HTTP requests for moderation reports
type ReportHandler struct {
	service *report.Service
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *report.Service, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  log,
	}
}

// CreateReportRequest represents the request body for submitting a report
type CreateReportRequest struct {
	Type         string     `json:"type" validate:"required,report_type"`
	ReportedByID uuid.UUID  `json:"reported_by_id" validate:"required"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	CommentID    *uuid.UUID `json:"comment_id,omitempty"`
	Reason       *string    `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// ResolveReportRequest represents the request body for resolving a report
type ResolveReportRequest struct {
	Status       string    `json:"status" validate:"required,report_status"`
	ResolvedByID uuid.UUID `json:"resolved_by_id" validate:"required"`
}

// Create handles POST /api/v1/reports
// @Summary Report a product or a comment
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report"
// @Success 201 {object} response.Envelope{data=domain.ReportDetails} "Report created"
// @Failure 400 {object} response.ErrorBody "Invalid request"
// @Failure 404 {object} response.ErrorBody "Reporter or target not found"
// @Failure 429 {object} response.ErrorBody "Too many reports"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /reports [post]
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	details, err := h.service.Create(r.Context(), report.CreateInput{
		Type:         domain.ReportType(req.Type),
		ReportedByID: req.ReportedByID,
		ProductID:    req.ProductID,
		CommentID:    req.CommentID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, details)
}

// List handles GET /api/v1/reports
// @Summary List reports
// @Description Expanded reports newest first
// @Tags Reports
// @Produce json
// @Param type query string false "Report type" Enums(PRODUCT, COMMENT)
// @Success 200 {object} response.Envelope{data=[]domain.ReportDetails} "Reports"
// @Failure 400 {object} response.ErrorBody "Unknown report type"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /reports [get]
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter *domain.ReportType
	if raw := request.GetOptionalQuery(r, "type"); raw != nil {
		reportType := domain.ReportType(*raw)
		filter = &reportType
	}

	reports, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, reports)
}

// GetByID handles GET /api/v1/reports/:reportId
// @Summary Get a report
// @Tags Reports
// @Produce json
// @Param reportId path string true "Report ID (UUID)"
// @Success 200 {object} response.Envelope{data=domain.ReportDetails} "Report"
// @Failure 400 {object} response.ErrorBody "Invalid report ID"
// @Failure 404 {object} response.ErrorBody "Report not found"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /reports/{reportId} [get]
func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "reportId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	details, err := h.service.GetDetails(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, details)
}

// Resolve handles PUT /api/v1/reports/:reportId
// @Summary Resolve a pending report
// @Description Rejection withdraws a reported product or removes a reported comment thread
// @Tags Reports
// @Accept json
// @Produce json
// @Param reportId path string true "Report ID (UUID)"
// @Param resolution body ResolveReportRequest true "Decision"
// @Success 200 {object} response.Envelope{data=domain.ReportDetails} "Resolved report"
// @Failure 400 {object} response.ErrorBody "Invalid request"
// @Failure 404 {object} response.ErrorBody "Report or target not found"
// @Failure 409 {object} response.ErrorBody "Report already resolved"
// @Failure 500 {object} response.ErrorBody "Internal server error"
// @Router /reports/{reportId} [put]
func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "reportId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var req ResolveReportRequest
	if err := request.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	details, err := h.service.Resolve(r.Context(), id, domain.ReportStatus(req.Status), req.ResolvedByID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, details)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ReportHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Report or referenced entity not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, "Report is no longer pending")
	case errors.Is(err, domain.ErrRateLimited):
		response.Error(w, http.StatusTooManyRequests, "Too many reports, try again later")
	default:
		h.logger.Error("Internal error in report handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
