package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

const reportColumns = `r.id, r.type, r.product_id, r.comment_id, r.reported_by_id, r.reason,
		r.status, r.resolved_by_id, r.resolved_at, r.created_at`

// reportDetailsSelect expands a report with every related entity. All joins
// are outer: a removed comment or its author leaves the relation empty.
const reportDetailsSelect = `
	SELECT ` + reportColumns + `,
		rb.id                AS reporter_id,
		rb.name              AS reporter_name,
		rb.profile_image_url AS reporter_profile_image_url,
		rb.role              AS reporter_role,
		p.id                 AS product_summary_id,
		p.name               AS product_summary_name,
		p.images             AS product_summary_images,
		c.id                 AS comment_summary_id,
		c.content            AS comment_summary_content,
		cu.id                AS comment_author_id,
		cu.name              AS comment_author_name,
		rv.id                AS resolver_id,
		rv.name              AS resolver_name
	FROM reports r
	LEFT JOIN users rb    ON rb.id = r.reported_by_id
	LEFT JOIN products p  ON p.id = r.product_id
	LEFT JOIN comments c  ON c.id = r.comment_id
	LEFT JOIN users cu    ON cu.id = c.user_id
	LEFT JOIN users rv    ON rv.id = r.resolved_by_id
`

// reportRow is the flat shape of reportDetailsSelect
type reportRow struct {
	domain.Report

	ReporterID              *uuid.UUID     `db:"reporter_id"`
	ReporterName            *string        `db:"reporter_name"`
	ReporterProfileImageURL *string        `db:"reporter_profile_image_url"`
	ReporterRole            *string        `db:"reporter_role"`
	ProductSummaryID        *uuid.UUID     `db:"product_summary_id"`
	ProductSummaryName      *string        `db:"product_summary_name"`
	ProductSummaryImages    pq.StringArray `db:"product_summary_images"`
	CommentSummaryID        *uuid.UUID     `db:"comment_summary_id"`
	CommentSummaryContent   *string        `db:"comment_summary_content"`
	CommentAuthorID         *uuid.UUID     `db:"comment_author_id"`
	CommentAuthorName       *string        `db:"comment_author_name"`
	ResolverID              *uuid.UUID     `db:"resolver_id"`
	ResolverName            *string        `db:"resolver_name"`
}

func (row *reportRow) toDetails() *domain.ReportDetails {
	details := &domain.ReportDetails{Report: row.Report}

	if row.ReporterID != nil {
		details.ReportedBy = &domain.UserSummary{
			ID:              *row.ReporterID,
			Name:            deref(row.ReporterName),
			ProfileImageURL: row.ReporterProfileImageURL,
			Role:            deref(row.ReporterRole),
		}
	}

	if row.ProductSummaryID != nil {
		images := row.ProductSummaryImages
		if images == nil {
			images = pq.StringArray{}
		}
		details.Product = &domain.ProductSummary{
			ID:     *row.ProductSummaryID,
			Name:   deref(row.ProductSummaryName),
			Images: images,
		}
	}

	if row.CommentSummaryID != nil {
		summary := &domain.CommentSummary{
			ID:      *row.CommentSummaryID,
			Content: deref(row.CommentSummaryContent),
		}
		if row.CommentAuthorID != nil {
			summary.User = domain.UserBrief{ID: *row.CommentAuthorID, Name: deref(row.CommentAuthorName)}
		}
		details.Comment = summary
	}

	if row.ResolverID != nil {
		details.ResolvedBy = &domain.UserBrief{ID: *row.ResolverID, Name: deref(row.ResolverName)}
	}

	return details
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ReportRepository implements domain.ReportRepository for PostgreSQL
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a pending report. The reporter and product are covered by
// foreign keys; comment references carry none, so the insert is conditioned on
// the comment existing and locks it against a concurrent delete.
func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (type, product_id, comment_id, reported_by_id, reason, status, created_at)
		SELECT $1::varchar, $2::uuid, $3::uuid, $4::uuid, $5::text, $6::varchar, $7::timestamptz
		WHERE $3::uuid IS NULL
		   OR EXISTS (SELECT 1 FROM comments WHERE id = $3::uuid FOR KEY SHARE)
		RETURNING id, status, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		report.Type,
		report.ProductID,
		report.CommentID,
		report.ReportedByID,
		report.Reason,
		domain.ReportStatusPending,
		time.Now(),
	).Scan(&report.ID, &report.Status, &report.CreatedAt)

	// no row means the comment is gone
	return translateError(err)
}

// GetByID retrieves a bare report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports r WHERE r.id = $1`

	var report domain.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, translateError(err)
	}

	return &report, nil
}

// GetDetails retrieves an expanded report by ID
func (r *ReportRepository) GetDetails(ctx context.Context, id uuid.UUID) (*domain.ReportDetails, error) {
	query := reportDetailsSelect + ` WHERE r.id = $1`

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translateError(err)
	}

	return row.toDetails(), nil
}

// List retrieves expanded reports, newest first, optionally filtered by type
func (r *ReportRepository) List(ctx context.Context, filter domain.ReportFilter) ([]*domain.ReportDetails, error) {
	query := reportDetailsSelect
	args := []interface{}{}
	if filter.Type != nil {
		query += ` WHERE r.type = $1`
		args = append(args, *filter.Type)
	}
	query += ` ORDER BY r.created_at DESC, r.id`

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	reports := make([]*domain.ReportDetails, 0, len(rows))
	for i := range rows {
		reports = append(reports, rows[i].toDetails())
	}

	return reports, nil
}

var _ domain.ReportRepository = (*ReportRepository)(nil)
