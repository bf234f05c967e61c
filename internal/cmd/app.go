package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/checkout"
	"github.com/matthieukhl/naturemagic/internal/cms"
	"github.com/matthieukhl/naturemagic/internal/config"
	"github.com/matthieukhl/naturemagic/internal/database"
	"github.com/matthieukhl/naturemagic/internal/logging"
	"github.com/matthieukhl/naturemagic/internal/orders"
	"github.com/matthieukhl/naturemagic/internal/pricing"
	"github.com/matthieukhl/naturemagic/internal/server"
)

// app holds every service built from one configuration.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB

	catalog  *catalog.Catalog
	policy   pricing.Policy
	carts    *cart.Service
	checkout *checkout.Service
	orders   orders.Repository
	content  *cms.ContentService
	products *cms.ProductService
	importer *cms.PageImporter

	closers []func() error
}

// newApp connects the configured backends and builds the services on top of them.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog.Default(),
		policy: pricing.NewPolicy(cfg.Pricing.DiscountRate, cfg.Pricing.FreeShippingThreshold,
			cfg.Pricing.ShippingCost, cfg.Pricing.Currency),
	}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	if cfg.NeedsMySQL() {
		fmt.Println("🔌 Connecting to database...")
		db, err := database.NewConnection(ctx, &cfg.DB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		fmt.Println("✅ Database connected successfully")
	}

	var cartStore cart.Store = cart.NewMemoryStore()
	if cfg.Storage.Cart == "redis" {
		store, err := cart.NewRedisStore(cfg.Redis.URL, cfg.Redis.CartTTL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cartStore = store
		a.closers = append(a.closers, store.Close)
	}

	var orderRepo orders.Repository = orders.NewMemoryRepository()
	if cfg.Storage.Orders == "mysql" {
		orderRepo = orders.NewMySQLRepository(a.db.DB)
	}

	var cmsStore cms.Storage = cms.NewFileStorage(afero.NewOsFs(), cfg.Storage.CMSDir)
	if cfg.Storage.CMS == "mysql" {
		cmsStore = cms.NewSQLStorage(a.db.DB)
	}

	ids, err := checkout.NewIDGenerator(cfg.Checkout.OrderIDs)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.orders = orderRepo
	a.carts = cart.NewService(cartStore, a.catalog, logger)
	a.checkout = checkout.NewService(a.carts, a.catalog, checkout.Deps{
		Policy:       a.policy,
		Processor:    checkout.SimulatedProcessor{Delay: cfg.Checkout.ProcessingDelay},
		IDs:          ids,
		Orders:       orderRepo,
		CancelWindow: cfg.Checkout.CancelWindow,
		Logger:       logger,
	})
	a.content = cms.NewContentService(cmsStore, logger)
	a.products = cms.NewProductService(cmsStore, a.content, logger)
	a.importer = cms.NewPageImporter(&http.Client{Timeout: 20 * time.Second}, logger)
	return a, nil
}

func (a *app) server() *server.Server {
	return server.NewServer(server.Deps{
		Catalog:   a.catalog,
		Carts:     a.carts,
		Checkout:  a.checkout,
		Policy:    a.policy,
		Content:   a.content,
		Products:  a.products,
		Importer:  a.importer,
		DB:        a.db,
		Logger:    a.logger,
		RateLimit: a.cfg.Server.RateLimit,
		RateBurst: a.cfg.Server.RateBurst,
	})
}

// Close releases backends in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
