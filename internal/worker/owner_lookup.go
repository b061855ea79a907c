package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Recipient is where a notification is delivered
type Recipient struct {
	Email string `db:"email"`
	Name  string `db:"name"`
}

// OwnerLookup resolves notification recipients from the marketplace database
type OwnerLookup struct {
	db *sqlx.DB
}

// NewOwnerLookup creates a new recipient lookup
func NewOwnerLookup(db *sqlx.DB) *OwnerLookup {
	return &OwnerLookup{db: db}
}

// ProductOwner returns the user who listed the product, or nil when the
// product no longer exists
func (l *OwnerLookup) ProductOwner(ctx context.Context, productID uuid.UUID) (*Recipient, error) {
	query := `
		SELECT u.email, u.name
		FROM products p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	return l.get(ctx, query, productID)
}

// Reporter returns the user who submitted the report, or nil when the report
// does not exist
func (l *OwnerLookup) Reporter(ctx context.Context, reportID uuid.UUID) (*Recipient, error) {
	query := `
		SELECT u.email, u.name
		FROM reports r
		JOIN users u ON u.id = r.reported_by_id
		WHERE r.id = $1
	`

	return l.get(ctx, query, reportID)
}

func (l *OwnerLookup) get(ctx context.Context, query string, id uuid.UUID) (*Recipient, error) {
	var recipient Recipient
	err := l.db.GetContext(ctx, &recipient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}

	return &recipient, nil
}
