package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

var productRowColumns = []string{
	"id", "user_id", "name", "tagline", "description", "website_url", "category",
	"images", "upvotes", "is_approved", "created_at", "updated_at",
}

func TestProductRepository_Upvote(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)
	id, owner := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("SET upvotes = upvotes \\+ 1").
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(id.String(), owner.String(), "Widget", nil, nil, nil, "tools", "{}", 5, true, now, now))

	product, err := repo.Upvote(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, 5, product.Upvotes)
	assert.Empty(t, product.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SetApproval_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)
	id := uuid.New()

	mock.ExpectQuery("UPDATE products").
		WithArgs(false, sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err := repo.SetApproval(context.Background(), id, false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepository_List_ByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)
	id, owner := uuid.New(), uuid.New()
	now := time.Now()
	category := "tools"
	filter := domain.ProductFilter{Category: &category}

	mock.ExpectQuery("FROM products WHERE category = \\$1 ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs(category, 20, 0).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(id.String(), owner.String(), "Widget", nil, nil, nil, "tools", "{}", 0, true, now, now))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE category = \\$1").
		WithArgs(category).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	products, err := repo.List(context.Background(), filter, 20, 0)
	require.NoError(t, err)
	total, err := repo.Count(context.Background(), filter)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "tools", products[0].Category)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Unfiltered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("FROM products ORDER BY created_at DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(10, 5).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	products, err := repo.List(context.Background(), domain.ProductFilter{}, 10, 5)

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
