package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/inkwell/blog-api/docs"
	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/service"
	mongodb "github.com/inkwell/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/inkwell/blog-api/internal/infrastructure/db/redis"
	"github.com/inkwell/blog-api/internal/infrastructure/mail"
	"github.com/inkwell/blog-api/internal/infrastructure/queue"
	"github.com/inkwell/blog-api/internal/pkg/config"
	"github.com/inkwell/blog-api/pkg/logger"
)

// Router bundles the Echo instance with the services main needs for
// bootstrap work (index creation, admin seeding).
type Router struct {
	Echo     *echo.Echo
	Accounts *service.AccountService
}

// NewRouter builds the Echo instance with all routes registered.
// The dispatcher must already be started by the caller.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, dispatcher *queue.Dispatcher) *Router {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Repositories ---
	accountRepo := mongodb.NewAccountRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.SessionTTL, cfg.RememberTTL, cfg.BcryptCost)
	notifier := mail.NewNotifier(dispatcher, cfg.SMTP.BaseURL, log)
	accountService := service.NewAccountService(accountRepo, tokens, notifier, log)
	postService := service.NewPostService(postRepo, categoryRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, log)
	commentService := service.NewCommentService(commentRepo, postRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(accountService)
	postHandler := handler.NewPostHandler(postService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	commentHandler := handler.NewCommentHandler(commentService)

	// --- Middleware ---
	auth := middleware.Auth(tokens, accountRepo)
	optionalAuth := middleware.OptionalAuth(tokens, accountRepo)
	admin := middleware.Admin()

	limiter := redisdb.NewRateLimiter(rdb)
	loginLimit := middleware.RateLimit(limiter, "login", cfg.Rate.LoginMax, cfg.Rate.LoginWindow, log)
	emailLimit := middleware.RateLimit(limiter, "email", cfg.Rate.EmailMax, cfg.Rate.EmailWindow, log)
	apiLimit := middleware.RateLimit(limiter, "api", cfg.Rate.APIMax, cfg.Rate.APIWindow, log)

	// --- Auth routes ---
	authGroup := e.Group("/api/auth", apiLimit)
	authGroup.POST("/register", authHandler.Register, emailLimit)
	authGroup.POST("/login", authHandler.Login, loginLimit)
	authGroup.POST("/verify-email", authHandler.VerifyEmail)
	authGroup.POST("/resend-verification", authHandler.ResendVerification, emailLimit)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword, emailLimit)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/change-password", authHandler.ChangePassword, auth)
	authGroup.GET("/me", authHandler.Me, auth)
	authGroup.PATCH("/profile", authHandler.UpdateProfile, auth)

	// --- Post routes ---
	posts := e.Group("/api/posts", apiLimit)
	posts.GET("", postHandler.List)
	posts.GET("/:id", postHandler.Get, optionalAuth)
	posts.POST("", postHandler.Create, auth)
	posts.PATCH("/:id", postHandler.Update, auth)
	posts.DELETE("/:id", postHandler.Delete, auth)
	posts.POST("/:id/publish", postHandler.Publish, auth)
	posts.POST("/:id/unpublish", postHandler.Unpublish, auth)

	// --- Comment routes (public) ---
	posts.GET("/:id/comments", commentHandler.ListForPost)
	posts.POST("/:id/comments", commentHandler.Submit)

	// --- Category routes ---
	categories := e.Group("/api/categories", apiLimit)
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.POST("", categoryHandler.Create, auth, admin)
	categories.PATCH("/:id", categoryHandler.Update, auth, admin)
	categories.DELETE("/:id", categoryHandler.Delete, auth, admin)

	// --- Moderation routes (admin) ---
	moderation := e.Group("/api/admin/comments", apiLimit, auth, admin)
	moderation.GET("/pending", commentHandler.ListPending)
	moderation.POST("/:id/approve", commentHandler.Approve)
	moderation.DELETE("/:id", commentHandler.Delete)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)             // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)   // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return &Router{Echo: e, Accounts: accountService}
}
