package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mercadito/ecommerce-api/docs"
	"github.com/mercadito/ecommerce-api/internal/api/handler"
	"github.com/mercadito/ecommerce-api/internal/api/middleware"
	"github.com/mercadito/ecommerce-api/internal/core/service"
	"github.com/mercadito/ecommerce-api/internal/infrastructure/config"
	mongodb "github.com/mercadito/ecommerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mercadito/ecommerce-api/internal/infrastructure/db/redis"
	"github.com/mercadito/ecommerce-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, sender service.EmailSender, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mercadito"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	cartRepo := mongodb.NewCartRepository(db)

	var limiter service.CodeLimiter
	if rdb != nil {
		limiter = redisdb.NewCodeLimiter(rdb, cfg.Redis.CodeWindow, cfg.Redis.CodeLimit, log)
	}

	authService := service.NewAuthService(userRepo, sender, limiter, cfg.JWTSecret, cfg.TokenTTL, log)
	productService := service.NewProductService(productRepo, log)
	cartService := service.NewCartService(cartRepo, productRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	authRequired := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-account", authHandler.VerifyAccount)
	auth.POST("/verify-2fa", authHandler.VerifyTwoFactor)
	auth.POST("/request-2fa", authHandler.RequestTwoFactor)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Cart routes (all require a session token) ---
	cart := e.Group("/api/carrito", authRequired)
	cart.GET("", cartHandler.Get)
	cart.POST("/agregar", cartHandler.AddItem)
	cart.DELETE("/remover/:productoId", cartHandler.RemoveItem)

	// --- Catalog routes (reads public, writes behind auth) ---
	products := e.Group("/api/producto")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, authRequired)
	products.PUT("/:id", productHandler.Update, authRequired)
	products.DELETE("/:id", productHandler.Delete, authRequired)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
