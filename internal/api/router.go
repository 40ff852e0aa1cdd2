package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/locallink/booking-api/internal/api/handler"
	"github.com/locallink/booking-api/internal/api/middleware"
	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/service"
	"github.com/locallink/booking-api/internal/infrastructure/config"
	mongodb "github.com/locallink/booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/locallink/booking-api/internal/infrastructure/db/redis"
	"github.com/locallink/booking-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("locallink"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	serviceRepo := mongodb.NewServiceRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)

	var limiter service.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Window)
	}

	authService := service.NewAuthService(userRepo, limiter, cfg.JWTSecret, cfg.TokenTTL, log)
	catalogService := service.NewCatalogService(categoryRepo, serviceRepo, userRepo, bookingRepo, log)
	bookingService := service.NewBookingService(bookingRepo, userRepo, catalogService, log)
	userService := service.NewUserService(userRepo, serviceRepo, bookingRepo, log)

	authHandler := handler.NewAuthHandler(authService, bookingService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(userService, bookingService)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleProvider)

	// --- Root ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"message": "Welcome to LocalLink API!",
			"status":  "running",
		})
	})

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authRequired)
	e.PATCH("/auth/me", authHandler.UpdateMe, authRequired)
	e.POST("/auth/change-password", authHandler.ChangePassword, authRequired)
	e.GET("/auth/my-bookings", authHandler.MyBookings, authRequired)
	e.PATCH("/auth/my-bookings/:id", authHandler.UpdateMyBooking, authRequired)

	// --- Categories (reads public, writes authenticated) ---
	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:id", categoryHandler.Get)
	e.POST("/categories", categoryHandler.Create, authRequired)
	e.PATCH("/categories/:id", categoryHandler.Update, authRequired)
	e.DELETE("/categories/:id", categoryHandler.Delete, authRequired)

	// --- Services (reads public, writes authenticated) ---
	e.GET("/services", serviceHandler.List)
	e.GET("/services/:id", serviceHandler.Get)
	e.POST("/services", serviceHandler.Create, authRequired)
	e.PATCH("/services/:id", serviceHandler.Update, authRequired)
	e.DELETE("/services/:id", serviceHandler.Delete, authRequired)

	// --- Bookings ---
	e.GET("/bookings", bookingHandler.List, authRequired, adminOnly)
	e.GET("/bookings/:id", bookingHandler.Get, authRequired)
	e.POST("/bookings", bookingHandler.Create, authRequired)
	e.PATCH("/bookings/:id", bookingHandler.Update, authRequired, staffOnly)
	e.DELETE("/bookings/:id", bookingHandler.Delete, authRequired, adminOnly)

	// --- Users (read-only general) ---
	e.GET("/users", userHandler.List)
	e.GET("/users/:id", userHandler.Get)

	// --- Admin ---
	admin := e.Group("/admin", authRequired, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/bookings", adminHandler.ListBookings)
	admin.DELETE("/bookings/:id", adminHandler.DeleteBooking)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
