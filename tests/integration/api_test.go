//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/product_marketplace/internal/config"
	"github.com/Pesokrava/product_marketplace/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/product_marketplace/internal/delivery/http"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/handler"
	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/cache"
	"github.com/Pesokrava/product_marketplace/internal/pkg/database"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/product_marketplace/internal/repository/cache"
	"github.com/Pesokrava/product_marketplace/internal/repository/postgres"
	"github.com/Pesokrava/product_marketplace/internal/usecase/comment"
	"github.com/Pesokrava/product_marketplace/internal/usecase/product"
	"github.com/Pesokrava/product_marketplace/internal/usecase/report"
)

type testEnv struct {
	server http.Handler
	db     *sqlx.DB
	users  *postgres.UserRepository
}

func setupTestServer(t *testing.T) *testEnv {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(context.Background(), cfg, 5, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(context.Background(), db))

	redisClient, err := cache.WaitForRedis(context.Background(), cfg, 5, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	users := postgres.NewUserRepository(db)
	products := postgres.NewProductRepository(db)
	throttle := cacheRepo.NewReportThrottle(redisClient, cfg.Moderation.ReportRateLimit, cfg.Moderation.ReportRateWindow)

	productService := product.NewService(products, publisher, cfg.NATS.Subject, log)
	commentService := comment.NewService(postgres.NewCommentRepository(db), postgres.NewLikeRepository(db), products, users, log)
	reportService := report.NewService(postgres.NewReportRepository(db), postgres.NewModerationStore(db), throttle, publisher, cfg.NATS.Subject, log)

	router := httpDelivery.NewRouter(
		handler.NewProductHandler(productService, log),
		handler.NewCommentHandler(commentService, log),
		handler.NewReportHandler(reportService, log),
		cfg,
		log,
	)

	return &testEnv{server: router.Setup(), db: db, users: users}
}

func (e *testEnv) createUser(t *testing.T, role string) uuid.UUID {
	t.Helper()
	u := &domain.User{Name: faker.Name(), Email: fmt.Sprintf("%s@example.com", uuid.NewString()), Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.ID
}

// do sends a JSON request and decodes the envelope data into out when given
func (e *testEnv) do(t *testing.T, method, target string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	e.server.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return w.Code
}

func (e *testEnv) createProduct(t *testing.T, owner uuid.UUID) domain.Product {
	t.Helper()
	var p domain.Product
	status := e.do(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"user_id":  owner,
		"name":     "Integration Product",
		"category": "tools",
	}, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestProductCreateAndGet(t *testing.T) {
	env := setupTestServer(t)
	p := env.createProduct(t, env.createUser(t, domain.RoleUser))

	assert.False(t, p.IsApproved)

	var got domain.Product
	status := env.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), nil, &got)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Integration Product", got.Name)
}

func TestCommentThread_RepliesAreFlattened(t *testing.T) {
	env := setupTestServer(t)
	author := env.createUser(t, domain.RoleUser)
	p := env.createProduct(t, author)
	base := fmt.Sprintf("/api/v1/products/%s/comments", p.ID)

	var root, reply, nested domain.CommentNode
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, base, map[string]interface{}{"content": "  first  ", "user_id": author}, &root))
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/comments/"+root.ID.String()+"/replies", map[string]interface{}{"content": "reply", "user_id": author}, &reply))
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/comments/"+reply.ID.String()+"/replies", map[string]interface{}{"content": "nested", "user_id": author}, &nested))

	assert.Equal(t, "first", root.Content)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, root.ID, *nested.ParentID)

	var threads []domain.CommentThread
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, base, nil, &threads))
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, nested.ID, threads[0].Replies[0].ID)
	assert.Equal(t, reply.ID, threads[0].Replies[1].ID)
}

func TestToggleLike_TwiceRestoresState(t *testing.T) {
	env := setupTestServer(t)
	author := env.createUser(t, domain.RoleUser)
	liker := env.createUser(t, domain.RoleUser)
	p := env.createProduct(t, author)

	var c domain.CommentNode
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/products/%s/comments", p.ID), map[string]interface{}{"content": faker.Sentence(), "user_id": author}, &c))

	target := "/api/v1/comments/" + c.ID.String() + "/like"
	var first, second domain.LikeState
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, target, map[string]interface{}{"user_id": liker}, &first))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, target, map[string]interface{}{"user_id": liker}, &second))

	assert.Equal(t, domain.LikeState{Likes: 1, IsLiked: true}, first)
	assert.Equal(t, domain.LikeState{Likes: 0, IsLiked: false}, second)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/v1/comments/"+uuid.NewString()+"/like", map[string]interface{}{"user_id": liker}, nil))
}

func TestReport_RejectCommentRemovesThread(t *testing.T) {
	env := setupTestServer(t)
	author := env.createUser(t, domain.RoleUser)
	reporter := env.createUser(t, domain.RoleUser)
	moderator := env.createUser(t, domain.RoleModerator)
	p := env.createProduct(t, author)
	comments := fmt.Sprintf("/api/v1/products/%s/comments", p.ID)

	var root, reply domain.CommentNode
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, comments, map[string]interface{}{"content": "spam", "user_id": author}, &root))
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/comments/"+root.ID.String()+"/replies", map[string]interface{}{"content": "more spam", "user_id": author}, &reply))

	var created domain.ReportDetails
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/reports", map[string]interface{}{
		"type":           "COMMENT",
		"reported_by_id": reporter,
		"comment_id":     root.ID,
		"reason":         "spam",
	}, &created))
	assert.Equal(t, domain.ReportStatusPending, created.Status)
	require.NotNil(t, created.Comment)

	resolve := map[string]interface{}{"status": "REJECTED", "resolved_by_id": moderator}
	var resolved domain.ReportDetails
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/v1/reports/"+created.ID.String(), resolve, &resolved))

	assert.Equal(t, domain.ReportStatusRejected, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Nil(t, resolved.Comment)

	var threads []domain.CommentThread
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, comments, nil, &threads))
	assert.Empty(t, threads)

	var remaining int
	require.NoError(t, env.db.Get(&remaining, `SELECT COUNT(*) FROM comments WHERE id IN ($1, $2)`, root.ID, reply.ID))
	assert.Zero(t, remaining)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPut, "/api/v1/reports/"+created.ID.String(), resolve, nil))
}

func TestReport_RejectProductWithdrawsApproval(t *testing.T) {
	env := setupTestServer(t)
	owner := env.createUser(t, domain.RoleUser)
	reporter := env.createUser(t, domain.RoleUser)
	moderator := env.createUser(t, domain.RoleModerator)
	p := env.createProduct(t, owner)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/v1/products/"+p.ID.String()+"/approval", map[string]bool{"is_approved": true}, nil))

	var created domain.ReportDetails
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/reports", map[string]interface{}{
		"type":           "PRODUCT",
		"reported_by_id": reporter,
		"product_id":     p.ID,
	}, &created))

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/v1/reports/"+created.ID.String(), map[string]interface{}{
		"status":         "REJECTED",
		"resolved_by_id": moderator,
	}, nil))

	var got domain.Product
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), nil, &got))
	assert.False(t, got.IsApproved)

	var listed []domain.ReportDetails
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/reports?type=PRODUCT", nil, &listed))
	require.NotEmpty(t, listed)
	for _, r := range listed {
		assert.Equal(t, domain.ReportTypeProduct, r.Type)
	}
}

func TestReport_MismatchedReferenceRejected(t *testing.T) {
	env := setupTestServer(t)
	reporter := env.createUser(t, domain.RoleUser)

	status := env.do(t, http.MethodPost, "/api/v1/reports", map[string]interface{}{
		"type":           "COMMENT",
		"reported_by_id": reporter,
		"product_id":     uuid.New(),
	}, nil)

	assert.Equal(t, http.StatusBadRequest, status)
}
