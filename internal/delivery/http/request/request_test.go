package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetUUIDParam(t *testing.T) {
	id := uuid.New()

	got, err := GetUUIDParam(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = GetUUIDParam(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope"), "id")
	assert.Error(t, err)

	_, err = GetUUIDParam(httptest.NewRequest(http.MethodGet, "/", nil), "id")
	assert.Error(t, err)
}

func TestGetOptionalQuery(t *testing.T) {
	assert.Nil(t, GetOptionalQuery(httptest.NewRequest(http.MethodGet, "/reports", nil), "type"))

	got := GetOptionalQuery(httptest.NewRequest(http.MethodGet, "/reports?type=COMMENT", nil), "type")
	require.NotNil(t, got)
	assert.Equal(t, "COMMENT", *got)

	empty := GetOptionalQuery(httptest.NewRequest(http.MethodGet, "/reports?type=", nil), "type")
	require.NotNil(t, empty)
	assert.Equal(t, "", *empty)
}

func TestGetPaginationParams(t *testing.T) {
	limit, offset := GetPaginationParams(httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-1", nil))
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = GetPaginationParams(httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil))
	assert.Equal(t, 5, limit)
	assert.Equal(t, 10, offset)
}

func TestDecodeAndValidate(t *testing.T) {
	type body struct {
		Content string `json:"content" validate:"required"`
	}

	var ok body
	err := DecodeAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"hi"}`)), &ok)
	require.NoError(t, err)
	assert.Equal(t, "hi", ok.Content)

	var missing body
	err = DecodeAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), &missing)
	assert.True(t, errors.Is(err, ErrValidation))

	var broken body
	err = DecodeAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)), &broken)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestDecodeAndValidate_NotBlank(t *testing.T) {
	type body struct {
		Content string `json:"content" validate:"required,notblank,max=5000"`
	}

	var ok body
	require.NotPanics(t, func() {
		err := DecodeAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"hello"}`)), &ok)
		require.NoError(t, err)
	})
	assert.Equal(t, "hello", ok.Content)

	var blank body
	err := DecodeAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"   "}`)), &blank)
	assert.True(t, errors.Is(err, ErrValidation))
}
