package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

// ModerationStore implements domain.ModerationStore on a sqlx transaction
type ModerationStore struct {
	db *sqlx.DB
}

// NewModerationStore creates a new PostgreSQL moderation store
func NewModerationStore(db *sqlx.DB) *ModerationStore {
	return &ModerationStore{db: db}
}

// WithinTx runs fn inside a single transaction bound to ctx. A cancelled
// context aborts the open statement and the transaction is rolled back.
func (s *ModerationStore) WithinTx(ctx context.Context, fn func(tx domain.ModerationTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&moderationTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type moderationTx struct {
	tx *sqlx.Tx
}

// MarkResolved only touches pending reports, so a report is resolved once
func (m *moderationTx) MarkResolved(ctx context.Context, res domain.Resolution) error {
	query := `
		UPDATE reports
		SET status = $1, resolved_by_id = $2, resolved_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := m.tx.ExecContext(
		ctx,
		query,
		res.Status,
		res.ResolvedByID,
		res.ResolvedAt,
		res.ReportID,
		domain.ReportStatusPending,
	)
	if err != nil {
		return translateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrConflict
	}

	return nil
}

// DisapproveProduct clears the approval flag of a product
func (m *moderationTx) DisapproveProduct(ctx context.Context, productID uuid.UUID) error {
	query := `UPDATE products SET is_approved = FALSE, updated_at = $1 WHERE id = $2`

	result, err := m.tx.ExecContext(ctx, query, time.Now(), productID)
	if err != nil {
		return translateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// DeleteCommentThread removes the comment and its replies; likes go with
// them through ON DELETE CASCADE
func (m *moderationTx) DeleteCommentThread(ctx context.Context, commentID uuid.UUID) (int64, error) {
	query := `DELETE FROM comments WHERE id = $1 OR parent_id = $1`

	result, err := m.tx.ExecContext(ctx, query, commentID)
	if err != nil {
		return 0, translateError(err)
	}

	return result.RowsAffected()
}

var _ domain.ModerationStore = (*ModerationStore)(nil)
