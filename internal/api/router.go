package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhub/hotel-api/internal/api/handler"
	"github.com/stayhub/hotel-api/internal/api/middleware"
	"github.com/stayhub/hotel-api/internal/core/domain"
	"github.com/stayhub/hotel-api/internal/core/service"
	mongostore "github.com/stayhub/hotel-api/internal/infrastructure/db/mongo"
	redisstore "github.com/stayhub/hotel-api/internal/infrastructure/db/redis"
	"github.com/stayhub/hotel-api/pkg/logger"
)

// NewRouter builds the Echo instance with every dependency constructed
// explicitly: one repository, one credential store, and one token service
// per process, all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, issuer, secret string, tokenTTL time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hotel_api"))

	// --- Dependencies ---
	accountRepo := mongostore.NewAccountRepository(db)
	credentials := service.NewCredentialService(accountRepo)
	tokens := service.NewTokenService(issuer, secret, tokenTTL)
	lastLogin := redisstore.NewLastLoginTracker(rdb)
	authHandler := handler.NewAuthHandler(credentials, tokens, lastLogin)

	hotelRepo := mongostore.NewGenericRepository[*domain.Hotel](db, "hotels")
	hotelHandler := handler.NewHotelHandler(hotelRepo)

	// --- Auth routes (all open; verify/tokenlifespan check the bearer
	// themselves) ---
	auth := e.Group("/auth")
	auth.GET("/test", handler.Demo("Hello from Open"))
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/verify", authHandler.Verify)
	auth.GET("/tokenlifespan", authHandler.TokenLifespan)

	// --- Role-gated demo routes: authenticate, then authorize ---
	e.GET("/protected/user_demo", handler.Demo("Hello from USER Protected"),
		middleware.Authenticate(tokens, domain.RoleUser),
		middleware.Authorize(domain.RoleUser))
	e.GET("/protected/admin_demo", handler.Demo("Hello from ADMIN Protected"),
		middleware.Authenticate(tokens, domain.RoleAdmin),
		middleware.Authorize(domain.RoleAdmin))

	// --- Hotel resource (open, like the rest of the public surface) ---
	e.GET("/hotels", hotelHandler.GetAll)
	e.POST("/hotels", hotelHandler.Create)
	e.GET("/hotels/:id", hotelHandler.GetByID)
	e.PUT("/hotels/:id", hotelHandler.Update)
	e.DELETE("/hotels/:id", hotelHandler.Delete)
	e.GET("/hotels/:id/rooms", hotelHandler.GetRooms)

	// --- Probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	auth.GET("/healthcheck", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
