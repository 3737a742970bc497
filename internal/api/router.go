package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/energybank/energy-bank/internal/api/handler"
	"github.com/energybank/energy-bank/internal/api/middleware"
	"github.com/energybank/energy-bank/internal/core/service"
	mongodb "github.com/energybank/energy-bank/internal/infrastructure/db/mongo"
	redisdb "github.com/energybank/energy-bank/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("energybank"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	planRepo := mongodb.NewPlanRepository(db)
	txRepo := mongodb.NewTransactionRepository(db)
	locks := redisdb.NewUserLock(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, tokenTTL)
	miningService := service.NewMiningService(userRepo, planRepo, log)
	planService := service.NewPlanService(planRepo, userRepo, txRepo, locks, log)
	walletService := service.NewWalletService(userRepo, txRepo, locks, log)
	adminService := service.NewAdminService(userRepo, txRepo, locks, log)

	authHandler := handler.NewAuthHandler(authService, userRepo)
	miningHandler := handler.NewMiningHandler(miningService)
	planHandler := handler.NewPlanHandler(planService)
	walletHandler := handler.NewWalletHandler(walletService)
	adminHandler := handler.NewAdminHandler(adminService)

	auth := middleware.Auth(jwtSecret)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)
	e.GET("/api/user", authHandler.Me, auth)

	// --- Mining ---
	e.POST("/api/mining/heartbeat", miningHandler.Heartbeat, auth)

	// --- Plans ---
	e.GET("/api/plans", planHandler.List)
	e.POST("/api/plans/purchase", planHandler.Purchase, auth)

	// --- Transactions ---
	e.GET("/api/transactions", walletHandler.List, auth)
	e.POST("/api/transactions/withdraw", walletHandler.Withdraw, auth)
	e.POST("/api/transactions/deposit", walletHandler.Deposit, auth)

	// --- Admin ---
	e.GET("/api/admin/transactions", adminHandler.List, auth, adminOnly)
	e.PATCH("/api/admin/transactions/:id", adminHandler.Settle, auth, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
