package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

// PostgreSQL error codes the repositories translate
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translateError maps driver errors onto domain errors and passes
// everything else through untouched
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return domain.ErrConflict
		case codeForeignKeyViolation:
			return domain.ErrNotFound
		}
	}

	return err
}
