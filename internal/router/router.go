// Package router assembles the HTTP surface: middleware, services and routes.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"isave/internal/autosave"
	"isave/internal/config"
	"isave/internal/docs"
	"isave/internal/events"
	"isave/internal/handlers"
	"isave/internal/middleware"
	"isave/internal/services"
	"isave/internal/validator"
)

// Deps are the collaborators the router wires into services.
// Publisher may be nil, in which case notifications are only persisted.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Publisher events.Publisher
}

// New builds the Gin engine. The returned stop function releases background
// resources held by middleware and should be called on shutdown.
func New(deps Deps) (*gin.Engine, func()) {
	cfg := deps.Config
	db := deps.DB

	validator.Register()

	// Initialize services
	auditService := services.NewAuditService(db)
	walletService := services.NewWalletService(db, cfg.MinDepositAmount)
	notificationService := services.NewNotificationService(db, deps.Publisher)
	savePlanService := services.NewSavePlanService(db, walletService, notificationService, cfg.MinDepositAmount)
	userService := services.NewUserService(db, walletService)
	runner := autosave.NewRunner(db, savePlanService)

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationDur)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, tokens)
	walletHandler := handlers.NewWalletHandler(walletService, auditService)
	savePlanHandler := handlers.NewSavePlanHandler(savePlanService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	pipelineHandler := handlers.NewPipelineHandler(runner)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.ErrorHandler())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
		}))
	}

	if !cfg.IsProduction() {
		docs.SwaggerInfo.BasePath = "/api/v1"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Public routes
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst)
	auth := v1.Group("/auth")
	auth.Use(limiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Scheduler callbacks
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/autosave/run", pipelineHandler.RunAutosave)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/profile", authHandler.GetProfile)

	wallet := protected.Group("/wallet")
	wallet.GET("", walletHandler.GetWallet)
	wallet.POST("/fund", walletHandler.FundWallet)
	wallet.GET("/transactions", walletHandler.GetWalletTransactions)

	savePlans := protected.Group("/save-plans")
	savePlans.POST("", savePlanHandler.CreateSavePlan)
	savePlans.GET("", savePlanHandler.GetSavePlans)
	savePlans.GET("/:id", savePlanHandler.GetSavePlan)
	savePlans.POST("/:id/deposit", savePlanHandler.Deposit)
	savePlans.POST("/:id/break", savePlanHandler.BreakPlan)
	savePlans.POST("/:id/withdraw", savePlanHandler.WithdrawCompletedPlan)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)

	return r, limiter.Stop
}
