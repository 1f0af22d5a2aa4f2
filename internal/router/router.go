package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/handlers"
	"github.com/storyforge-app/backend/internal/middleware"
	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/internal/services"
	"github.com/storyforge-app/backend/pkg/cache"
	"github.com/storyforge-app/backend/pkg/config"
	"github.com/storyforge-app/backend/pkg/logger"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	logger.S.Info("Global middleware configured")
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Chapter{},
		&models.StoryTag{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.ReleaseNote{},
		&models.SystemSetting{},
	)
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, c *cache.Cache, cfg *config.Config) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	logger.S.Info("Auto-migrations completed for all models")

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	storyRepo := repositories.NewPostgresStoryRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	releaseNoteRepo := repositories.NewPostgresReleaseNoteRepository(db)
	settingRepo := repositories.NewPostgresSystemSettingRepository(db)

	// --- Services ---
	interactionService := services.NewInteractionService(likeRepo, commentRepo, storyRepo, notificationRepo, c)
	notificationService := services.NewNotificationService(notificationRepo, c)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo, c)
	storyHandler := handlers.NewStoryHandler(storyRepo, c)
	commentHandler := handlers.NewCommentHandler(commentRepo, interactionService)
	likeHandler := handlers.NewLikeHandler(likeRepo, interactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	releaseNoteHandler := handlers.NewReleaseNoteHandler(releaseNoteRepo)
	adminHandler := handlers.NewAdminHandler(db, userRepo, storyRepo, settingRepo)
	uploadHandler := handlers.NewUploadHandler(cfg)

	// Health and version, always reachable
	e.GET("/health", handlers.HealthCheck)
	e.GET("/api/version", handlers.GetVersion)
	e.Static("/uploads", cfg.UploadDir)

	maintenance := middleware.MaintenanceMiddleware(settingRepo)

	// --- Unprotected auth routes ---
	authGroup := e.Group("/api/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Public read routes (optional auth for owner-sensitive reads) ---
	public := e.Group("/api")
	public.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret), maintenance)
	storyHandler.RegisterPublicRoutes(public)
	commentHandler.RegisterPublicRoutes(public)
	likeHandler.RegisterPublicRoutes(public)
	releaseNoteHandler.RegisterPublicRoutes(public)

	// --- Protected routes ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), maintenance)
	authHandler.RegisterProfileRoutes(api)
	userHandler.RegisterUserRoutes(api)
	storyHandler.RegisterStoryRoutes(api)
	commentHandler.RegisterCommentRoutes(api)
	likeHandler.RegisterLikeRoutes(api)
	notificationHandler.RegisterNotificationRoutes(api)
	uploadHandler.RegisterUploadRoutes(api)

	// --- Admin routes ---
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireAdmin())
	adminHandler.RegisterAdminRoutes(admin)
	releaseNoteHandler.RegisterAdminRoutes(admin)

	logger.S.Info("All routes configured")
	return nil
}
