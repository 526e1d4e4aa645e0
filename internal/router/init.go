package router

import (
	"github.com/mezshop/shop-api/internal/application"
	"github.com/mezshop/shop-api/internal/container"
	pginfra "github.com/mezshop/shop-api/internal/infrastructure/postgres"
	handlers "github.com/mezshop/shop-api/internal/interface/http"
	"github.com/mezshop/shop-api/internal/interface/middleware"
	"github.com/mezshop/shop-api/internal/router/modules"
)

// InitModules builds the repositories, services, and handlers from the
// container singletons and registers every feature module. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	productRepo := pginfra.NewProductRepository(pool)
	cartRepo := pginfra.NewCartRepository(pool)
	orderRepo := pginfra.NewOrderRepository(pool)
	audit := pginfra.NewAuditLogger(pool)

	authSvc := application.NewAuthService(userRepo, container.GetSessions(), container.GetRabbitPub(), cfg, logger)
	catalogSvc := application.NewCatalogService(productRepo, container.GetGCS(), cfg.GCSBucket, container.GetES(), cfg.ESProductsIndex, logger)
	orderSvc := application.NewOrderService(cartRepo, orderRepo, productRepo, container.GetInvoices(), container.GetRabbitPub(), cfg, logger)

	// Session resolution runs for every /api route; guards are per-module.
	r.Use(middleware.CurrentUser(container.GetSessions(), userRepo))

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, container.GetSessions(), audit, logger, cfg)))
	r.Add(modules.NewCatalogModule(handlers.NewProductHandler(catalogSvc, logger)))
	r.Add(modules.NewShopModule(handlers.NewShopHandler(orderSvc, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
