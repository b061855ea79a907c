package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/product_marketplace/internal/config"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/handler"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/middleware"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/response"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler *handler.ProductHandler
	commentHandler *handler.CommentHandler
	reportHandler  *handler.ReportHandler
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	commentHandler *handler.CommentHandler,
	reportHandler *handler.ReportHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler: productHandler,
		commentHandler: commentHandler,
		reportHandler:  reportHandler,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/", rt.productHandler.List)
			r.Get("/{productId}", rt.productHandler.GetByID)
			r.Put("/{productId}/approval", rt.productHandler.SetApproval)
			r.Post("/{productId}/upvote", rt.productHandler.Upvote)
			r.Get("/{productId}/comments", rt.commentHandler.ListByProduct)
			r.Post("/{productId}/comments", rt.commentHandler.Create)
		})

		r.Route("/comments/{commentId}", func(r chi.Router) {
			r.Post("/replies", rt.commentHandler.Reply)
			r.Post("/like", rt.commentHandler.ToggleLike)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", rt.reportHandler.Create)
			r.Get("/", rt.reportHandler.List)
			r.Get("/{reportId}", rt.reportHandler.GetByID)
			r.Put("/{reportId}", rt.reportHandler.Resolve)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
