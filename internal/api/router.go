package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/devcred/devcred-backend/internal/api/handlers"
	"github.com/devcred/devcred-backend/internal/api/middleware"
	"github.com/devcred/devcred-backend/internal/auth"
	"github.com/devcred/devcred-backend/internal/config"
	"github.com/devcred/devcred-backend/internal/logger"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/services"
	"github.com/devcred/devcred-backend/internal/storage"
	"github.com/devcred/devcred-backend/internal/websocket"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.FileStorage
	Hub         *websocket.Hub
	Tokens      *auth.TokenManager
	Config      *config.Config
	Logger      *slog.Logger
	SecLogger   *logger.SecurityLogger
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security middleware (applied in order)
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())

	e.Use(middleware.SecureCORS(cfg.Config.AllowedOrigins, cfg.Config.AppEnv))

	if cfg.Config.RateLimitRequests > 0 {
		e.Use(middleware.RateLimiterWithConfig(cfg.Config.RateLimitRequests, cfg.Config.RateLimitBurst, cfg.Logger))
	} else {
		e.Use(middleware.RateLimiter(cfg.Logger))
	}

	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	messageRepo := repository.NewMessageRepository(cfg.DB)
	requestRepo := repository.NewContributionRequestRepository(cfg.DB)
	contributionRepo := repository.NewContributionRepository(cfg.DB)
	endorsementRepo := repository.NewEndorsementRepository(cfg.DB)
	videoRepo := repository.NewVideoRepository(cfg.DB, cfg.FileStorage)
	resumeRepo := repository.NewResumeRepository(cfg.DB)

	// Services
	githubService := services.NewGitHubService(
		cfg.Config.GitHubClientID,
		cfg.Config.GitHubClientSecret,
		cfg.Config.GitHubRedirectURL,
		cfg.Logger)
	resumeService := services.NewResumeService(
		cfg.Config.OpenAIAPIKey,
		userRepo, contributionRepo, endorsementRepo, resumeRepo,
		cfg.FileStorage, cfg.Logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Config.MediaStoragePath)
	authHandler := handlers.NewAuthHandler(userRepo, cfg.Tokens)
	userHandler := handlers.NewUserHandler(userRepo, contributionRepo, endorsementRepo, videoRepo, resumeRepo, messageRepo, githubService)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, cfg.FileStorage, cfg.Hub, cfg.SecLogger)
	requestHandler := handlers.NewRequestHandler(requestRepo, userRepo)
	contributionHandler := handlers.NewContributionHandler(contributionRepo, userRepo, cfg.SecLogger)
	endorsementHandler := handlers.NewEndorsementHandler(endorsementRepo, userRepo, cfg.Hub)
	videoHandler := handlers.NewVideoHandler(videoRepo, cfg.FileStorage, cfg.SecLogger)
	resumeHandler := handlers.NewResumeHandler(resumeService, resumeRepo, cfg.FileStorage)
	githubHandler := handlers.NewGitHubHandler(githubService, userRepo, cfg.Config.FrontendURL)
	wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.Tokens, cfg.Logger)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket endpoint authenticates via token query parameter
	e.GET("/ws", wsHandler.Serve)

	api := e.Group("/api")
	authRequired := middleware.JWTAuth(cfg.Tokens, cfg.Logger)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)

	// User routes. Public profiles stay readable without a token.
	users := api.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/me", userHandler.Me, authRequired)
	users.PATCH("/me", userHandler.UpdateMe, authRequired)
	users.GET("/me/dashboard", userHandler.Dashboard, authRequired)
	users.GET("/:username", userHandler.Profile)
	users.GET("/:username/endorsements", endorsementHandler.ListForUser)
	users.GET("/:username/contributions", contributionHandler.List, authRequired)

	// Message routes
	messages := api.Group("/messages", authRequired)
	messages.POST("", messageHandler.Create)
	messages.GET("", messageHandler.List)
	messages.GET("/unread-count", messageHandler.UnreadCount)
	messages.GET("/conversations", messageHandler.Conversations)
	messages.GET("/:id", messageHandler.Get)
	messages.GET("/:id/attachment", messageHandler.Attachment)
	messages.POST("/:id/read", messageHandler.MarkRead)
	messages.POST("/:id/action", messageHandler.Action)
	messages.DELETE("/:id", messageHandler.Delete)

	// Contribution request routes
	requests := api.Group("/requests", authRequired)
	requests.POST("", requestHandler.Send)
	requests.GET("/incoming", requestHandler.Incoming)
	requests.GET("/outgoing", requestHandler.Outgoing)
	requests.GET("/allowed", requestHandler.Allowed)
	requests.POST("/:id/respond", requestHandler.Respond)

	// Contribution routes
	contributions := api.Group("/contributions", authRequired)
	contributions.POST("", contributionHandler.Create)
	contributions.GET("", contributionHandler.List)
	contributions.GET("/:id", contributionHandler.Get)
	contributions.PATCH("/:id", contributionHandler.Update)
	contributions.DELETE("/:id", contributionHandler.Delete)

	// Endorsement routes
	endorsements := api.Group("/endorsements", authRequired)
	endorsements.POST("", endorsementHandler.Create)

	// Mentoring video routes. Playback is public, management needs auth.
	videos := api.Group("/videos")
	videos.GET("", videoHandler.List)
	videos.GET("/:id", videoHandler.Get)
	videos.GET("/:id/stream", videoHandler.Stream)
	videos.POST("", videoHandler.Upload, authRequired)
	videos.DELETE("/:id", videoHandler.Delete, authRequired)

	// Resume routes
	resumes := api.Group("/resumes", authRequired)
	resumes.POST("", resumeHandler.Generate)
	resumes.GET("", resumeHandler.List)
	resumes.GET("/:id/pdf", resumeHandler.Download)

	// GitHub integration routes. The callback is reached by a browser
	// redirect from GitHub, which never carries a bearer token; it
	// authenticates through the state cookie instead.
	api.GET("/github/callback", githubHandler.Callback)

	githubGroup := api.Group("/github", authRequired)
	githubGroup.GET("/login", githubHandler.Login)
	githubGroup.GET("/profile", githubHandler.Profile)
	githubGroup.GET("/repos", githubHandler.Repos)

	return e
}
