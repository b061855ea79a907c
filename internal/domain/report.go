package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportType identifies what kind of entity a report targets
type ReportType string

const (
	ReportTypeProduct ReportType = "PRODUCT"
	ReportTypeComment ReportType = "COMMENT"
)

// ReportTypes lists every report type the system accepts
func ReportTypes() []ReportType {
	return []ReportType{ReportTypeProduct, ReportTypeComment}
}

// Valid reports whether t is a known report type
func (t ReportType) Valid() bool {
	for _, known := range ReportTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ReportStatus is the moderation state of a report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusApproved ReportStatus = "APPROVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// Valid reports whether s is a known report status
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusApproved, ReportStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s is a resolution outcome
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusApproved || s == ReportStatusRejected
}

// Report is a moderation request against a product or a comment.
// Exactly one of ProductID and CommentID is set, matching Type.
// ResolvedByID and ResolvedAt are set together, once.
type Report struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Type         ReportType   `json:"type" db:"type"`
	ProductID    *uuid.UUID   `json:"product_id" db:"product_id"`
	CommentID    *uuid.UUID   `json:"comment_id" db:"comment_id"`
	ReportedByID uuid.UUID    `json:"reported_by_id" db:"reported_by_id"`
	Reason       *string      `json:"reason" db:"reason"`
	Status       ReportStatus `json:"status" db:"status"`
	ResolvedByID *uuid.UUID   `json:"resolved_by_id" db:"resolved_by_id"`
	ResolvedAt   *time.Time   `json:"resolved_at" db:"resolved_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// TargetID returns the reference that matches the report type
func (r *Report) TargetID() *uuid.UUID {
	switch r.Type {
	case ReportTypeProduct:
		return r.ProductID
	case ReportTypeComment:
		return r.CommentID
	}
	return nil
}

// ReportDetails is a report expanded with its related entities. A relation
// that no longer exists (e.g. a removed comment) is nil.
type ReportDetails struct {
	Report
	ReportedBy *UserSummary    `json:"reported_by"`
	Product    *ProductSummary `json:"product"`
	Comment    *CommentSummary `json:"comment"`
	ResolvedBy *UserBrief      `json:"resolved_by"`
}

// ReportFilter narrows report listings
type ReportFilter struct {
	Type *ReportType
}

// Resolution is the decision recorded on a pending report
type Resolution struct {
	ReportID     uuid.UUID
	Status       ReportStatus
	ResolvedByID uuid.UUID
	ResolvedAt   time.Time
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Create inserts a pending report and fills ID, Status and CreatedAt
	Create(ctx context.Context, report *Report) error

	// GetByID retrieves a bare report by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// GetDetails retrieves an expanded report by ID
	GetDetails(ctx context.Context, id uuid.UUID) (*ReportDetails, error)

	// List retrieves expanded reports, newest first
	List(ctx context.Context, filter ReportFilter) ([]*ReportDetails, error)
}

// ModerationTx is the set of writes a report resolution may perform. All
// calls made through one ModerationTx commit or roll back together.
type ModerationTx interface {
	// MarkResolved moves a pending report to a terminal status. It returns
	// ErrConflict if the report is no longer pending.
	MarkResolved(ctx context.Context, resolution Resolution) error

	// DisapproveProduct clears the approval flag of a product
	DisapproveProduct(ctx context.Context, productID uuid.UUID) error

	// DeleteCommentThread removes a comment together with its replies and
	// likes. It returns the number of comments removed.
	DeleteCommentThread(ctx context.Context, commentID uuid.UUID) (int64, error)
}

// ModerationStore runs resolution writes atomically
type ModerationStore interface {
	// WithinTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise
	WithinTx(ctx context.Context, fn func(tx ModerationTx) error) error
}
