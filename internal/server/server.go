package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/checkout"
	"github.com/matthieukhl/naturemagic/internal/cms"
	"github.com/matthieukhl/naturemagic/internal/database"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

// Deps are the services the API exposes. DB is optional and only used by /health.
type Deps struct {
	Catalog  *catalog.Catalog
	Carts    *cart.Service
	Checkout *checkout.Service
	Policy   pricing.Policy
	Content  *cms.ContentService
	Products *cms.ProductService
	Importer *cms.PageImporter
	DB       *database.DB
	Logger   *zap.Logger

	RateLimit float64
	RateBurst int
}

type Server struct {
	router  *gin.Engine
	deps    Deps
	logger  *zap.Logger
	limiter *RateLimiter
}

// NewServer creates a new server instance
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))

	server := &Server{
		router: router,
		deps:   deps,
		logger: deps.Logger.Named("server"),
	}
	if deps.RateLimit > 0 {
		server.limiter = NewRateLimiter(deps.RateLimit, deps.RateBurst)
		router.Use(server.limiter.Middleware())
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		api.GET("/catalog", s.listCatalog)
		api.GET("/catalog/:productID", s.getCatalogProduct)
	}

	sessions := api.Group("/sessions/:session")
	{
		sessions.GET("/cart", s.getCart)
		sessions.POST("/cart/items", s.addCartItem)
		sessions.PATCH("/cart/items/:index", s.updateCartItem)
		sessions.DELETE("/cart/items/:index", s.removeCartItem)

		sessions.POST("/checkout", s.mountCheckout)
		sessions.GET("/checkout", s.viewCheckout)
		sessions.POST("/checkout/submit", s.submitCheckout)
		sessions.POST("/checkout/cancel", s.cancelCheckout)
		sessions.POST("/checkout/upsells/:productID", s.acceptUpsell)
	}

	content := api.Group("/cms/content/:category")
	{
		content.GET("", s.listContent)
		content.PUT("/:id", s.updateContent)
		content.POST("/import", s.importContent)
		content.GET("/backup", s.backupContent)
		content.POST("/restore", s.restoreContent)
	}

	products := api.Group("/cms/products")
	{
		products.GET("", s.listProducts)
		products.GET("/:id", s.getProduct)
		products.POST("", s.saveProductGroup)
		products.DELETE("/:id", s.deleteProduct)
		products.POST("/batch", s.batchEditProducts)
		products.POST("/derive", s.rederiveProducts)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health when one is configured
	if s.deps.DB != nil {
		if err := s.deps.DB.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"error":  "database connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "naturemagic",
		"version": "0.1.0",
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.limiter != nil {
		go s.limiter.Cleanup(ctx, time.Minute, 3*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
