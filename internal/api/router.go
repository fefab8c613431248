package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/nomi-id/nomi-api/docs"
	"github.com/nomi-id/nomi-api/internal/api/handler"
	"github.com/nomi-id/nomi-api/internal/api/middleware"
	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/service"
	"github.com/nomi-id/nomi-api/internal/infrastructure/config"
	pgstore "github.com/nomi-id/nomi-api/internal/infrastructure/db/postgres"
	redisstore "github.com/nomi-id/nomi-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("nomi"))

	// --- Dependencies ---
	accountRepo := pgstore.NewAccountRepository(db)
	productRepo := pgstore.NewProductRepository(db)
	orderRepo := pgstore.NewOrderRepository(db)
	sessions := redisstore.NewSessionStore(rdb, cfg.Session.TTL)

	resolver := service.NewResolver(accountRepo, sessions, cfg.JWTSecret)
	authService := service.NewAuthService(accountRepo, sessions, cfg.JWTSecret, cfg.TokenTTL)
	catalogService := service.NewCatalogService(productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo)
	adminService := service.NewAdminService(accountRepo, orderRepo)

	authHandler := handler.NewAuthHandler(authService, cfg.Session.TTL)
	productHandler := handler.NewProductHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	adminHandler := handler.NewAdminHandler(adminService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/products", productHandler.ListStorefront)

	// --- Any authenticated role ---
	authed := e.Group("", middleware.Authenticate(resolver))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/logout", authHandler.Logout)

	// --- Consumer storefront ---
	consumer := e.Group("/orders",
		middleware.Authenticate(resolver, domain.RoleConsumer),
		middleware.RequireRoles(domain.RoleConsumer),
	)
	consumer.POST("", orderHandler.Place)
	consumer.GET("", orderHandler.History)
	consumer.POST("/:id/cancel", orderHandler.Cancel)

	// --- Merchant dashboard ---
	merchant := e.Group("/merchant",
		middleware.Authenticate(resolver, domain.RoleMerchant),
		middleware.RequireRoles(domain.RoleMerchant),
	)
	// The status probe stays outside the verification gate so pending
	// merchants can poll it from the holding page.
	merchant.GET("/status", authHandler.MerchantStatus)

	verified := merchant.Group("", middleware.RequireVerifiedMerchant())
	verified.GET("/products", productHandler.ListMine)
	verified.POST("/products", productHandler.Create)
	verified.PUT("/products/:id", productHandler.Update)
	verified.DELETE("/products/:id", productHandler.Delete)
	verified.GET("/orders", orderHandler.MerchantOrders)
	verified.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	verified.GET("/dashboard", orderHandler.MerchantDashboard)

	// --- Admin back office (token-only: the session branch never
	// resolves administrators against this allow-list) ---
	admin := e.Group("/admin",
		middleware.Authenticate(resolver, domain.RoleAdministrator),
		middleware.RequireRoles(domain.RoleAdministrator),
	)
	admin.GET("/accounts", adminHandler.ListAccounts)
	admin.PATCH("/merchants/:id/verification", adminHandler.SetVerification)
	admin.GET("/dashboard", adminHandler.PlatformDashboard)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
