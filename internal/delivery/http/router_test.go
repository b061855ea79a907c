package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Pesokrava/product_marketplace/internal/config"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/handler"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	"github.com/Pesokrava/product_marketplace/internal/usecase/comment"
	"github.com/Pesokrava/product_marketplace/internal/usecase/product"
	"github.com/Pesokrava/product_marketplace/internal/usecase/report"
)

// newTestRouter wires handlers over services without stores; only requests
// rejected before reaching a store may be sent through it
func newTestRouter() http.Handler {
	log := logger.New("test")
	cfg := &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}

	rt := NewRouter(
		handler.NewProductHandler(product.NewService(nil, nil, "", log), log),
		handler.NewCommentHandler(comment.NewService(nil, nil, nil, nil, log), log),
		handler.NewReportHandler(report.NewService(nil, nil, nil, nil, "", log), log),
		cfg,
		log,
	)
	return rt.Setup()
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestRouter_RoutesReachHandlers(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/v1/products/not-a-uuid/comments", "", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/products/not-a-uuid/comments", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/comments/not-a-uuid/replies", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/comments/not-a-uuid/like", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/reports", `{"type":"USER"}`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports?type=USER", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/not-a-uuid", "", http.StatusBadRequest},
		{http.MethodPut, "/api/v1/reports/not-a-uuid", `{}`, http.StatusBadRequest},
		{http.MethodPut, "/api/v1/products/not-a-uuid/approval", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/products/not-a-uuid/upvote", "", http.StatusBadRequest},
		{http.MethodDelete, "/api/v1/reports/not-a-uuid", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
