// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "storynest/docs" // swagger docs
	"storynest/internal/cache"
	"storynest/internal/config"
	"storynest/internal/database"
	"storynest/internal/generation"
	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/notifications"
	"storynest/internal/repository"
	"storynest/internal/service"
	"storynest/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	app         *fiber.App
	shutdownCtx context.Context
	shutdownFn  context.CancelFunc

	userRepo     repository.UserRepository
	babyRepo     repository.BabyRepository
	storyRepo    repository.StoryRepository
	galleryRepo  repository.GalleryRepository
	coloringRepo repository.ColoringRepository
	shareRepo    repository.SharePostRepository
	commentRepo  repository.CommentRepository

	notifier *notifications.Notifier
	feedHub  *notifications.FeedHub

	shareService    *service.ShareService
	commentService  *service.CommentService
	galleryService  *service.GalleryService
	storyService    *service.StoryService
	coloringService *service.ColoringService
	userService     *service.UserService
	babyService     *service.BabyService
	lullabyService  *service.LullabyService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	store, err := storage.NewS3Storage(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage init failed: %w", err)
	}

	presets, err := service.LoadPresetCatalog(cfg.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("preset catalog load failed: %w", err)
	}

	client := generation.NewClient(cfg)
	return NewServerWithDeps(cfg, db, redisClient, client, client, store, presets)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and stub collaborators.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	generator generation.Generator,
	searcher generation.MediaSearcher,
	store storage.ObjectStorage,
	presets *service.PresetCatalog,
) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:       cfg,
		db:           db,
		redis:        redisClient,
		userRepo:     repository.NewUserRepository(db),
		babyRepo:     repository.NewBabyRepository(db),
		storyRepo:    repository.NewStoryRepository(db),
		galleryRepo:  repository.NewGalleryRepository(db),
		coloringRepo: repository.NewColoringRepository(db),
		shareRepo:    repository.NewSharePostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.feedHub = notifications.NewFeedHub()
	}

	resolver := service.NewDisplayNameResolver(server.babyRepo)
	images := service.NewImageService()

	server.shareService = service.NewShareService(
		server.shareRepo, server.storyRepo, server.galleryRepo, server.coloringRepo,
		server.userRepo, resolver, generator, store, server.notifier)
	server.commentService = service.NewCommentService(
		server.commentRepo, server.shareRepo, server.userRepo, resolver, server.notifier)
	server.galleryService = service.NewGalleryService(server.galleryRepo, server.storyRepo, server.coloringRepo)
	server.storyService = service.NewStoryService(server.storyRepo, server.galleryRepo, generator, store, presets)
	server.coloringService = service.NewColoringService(server.coloringRepo, server.storyRepo, generator, store, images)
	server.userService = service.NewUserService(server.userRepo, store, images)
	server.babyService = service.NewBabyService(server.babyRepo)
	server.lullabyService = service.NewLullabyService(searcher)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus HTTP metrics plus the /metrics endpoint
	middleware.InitMetrics(app)

	// Distributed tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)
	auth.Get("/google", s.GoogleLogin)
	auth.Get("/google/callback", s.GoogleCallback)
	auth.Get("/kakao", s.KakaoLogin)
	auth.Get("/kakao/callback", s.KakaoCallback)

	// Public share feed. OptionalAuth personalizes liked/is_owner when a
	// token is present but never requires one.
	share := api.Group("/share")
	sharePosts := share.Group("/posts")
	sharePosts.Get("/", middleware.OptionalAuth, s.GetSharePosts)
	sharePosts.Get("/my", middleware.AuthRequired, s.GetMySharePosts)
	sharePosts.Get("/popular", middleware.OptionalAuth, s.GetPopularSharePosts)
	sharePosts.Get("/recent", middleware.OptionalAuth, s.GetRecentSharePosts)
	sharePosts.Post("/:id/like", middleware.AuthRequired, s.ToggleSharePostLike)
	sharePosts.Get("/:id", middleware.OptionalAuth, s.GetSharePost)
	sharePosts.Delete("/:id", middleware.AuthRequired, s.DeleteSharePost)

	share.Post("/story/:storyId", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, time.Minute, "share_story"), s.ShareStory)
	share.Post("/gallery/:storyId", middleware.AuthRequired, s.ShareGalleryImage)
	share.Post("/coloring/:workId", middleware.AuthRequired, s.ShareColoringWork)

	shareComments := share.Group("/comments")
	shareComments.Get("/:postId/count", s.GetCommentCount)
	shareComments.Get("/:postId", s.GetComments)
	shareComments.Post("/:postId", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	shareComments.Put("/:commentId", middleware.AuthRequired, s.UpdateComment)
	shareComments.Delete("/:commentId", middleware.AuthRequired, s.DeleteComment)

	share.Get("/users/:username/stats", s.GetUserShareStats)

	// Lullaby lookups proxy the search sidecar; results are public.
	lullaby := api.Group("/lullaby")
	lullaby.Get("/themes", s.GetLullabyThemes)
	lullaby.Get("/available-themes", s.GetAvailableLullabyThemes)
	lullaby.Get("/search", s.SearchLullabiesByTag)
	lullaby.Get("/theme/:themeName", s.SearchLullabiesByTheme)
	lullaby.Get("/video", s.GetLullabyVideos)
	lullaby.Get("/videos/theme/:themeName", s.SearchLullabyVideosByTheme)
	lullaby.Get("/combined/:themeName", s.GetCombinedLullabyContent)
	lullaby.Get("/health", s.LullabySidecarHealth)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/profile-image", s.UploadProfileImage)

	babies := protected.Group("/babies")
	babies.Post("/", s.CreateBaby)
	babies.Get("/", s.GetBabies)
	babies.Put("/:id", s.UpdateBaby)
	babies.Delete("/:id", s.DeleteBaby)

	stories := protected.Group("/stories")
	stories.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_story"), s.CreateStory)
	stories.Get("/", s.GetStories)
	stories.Get("/presets", s.GetStoryPresets)
	stories.Post("/:id/image", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "generate_image"), s.GenerateStoryImage)
	stories.Post("/:id/voice", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "generate_voice"), s.GenerateStoryVoice)
	stories.Get("/:id", s.GetStory)
	stories.Delete("/:id", s.DeleteStory)

	gallery := protected.Group("/gallery")
	gallery.Get("/", s.GetGallery)
	gallery.Get("/stories", s.GetGalleryStories)
	gallery.Get("/coloring", s.GetGalleryColoring)
	gallery.Get("/stats", s.GetGalleryStats)
	gallery.Put("/:storyId/coloring", s.UpdateGalleryColoring)
	gallery.Get("/:storyId", s.GetGalleryEntry)
	gallery.Delete("/:storyId", s.DeleteGalleryEntry)

	coloring := protected.Group("/coloring")
	coloring.Post("/templates", s.CreateColoringTemplate)
	coloring.Get("/templates", s.GetColoringTemplates)
	coloring.Post("/works", s.SubmitColoringWork)
	coloring.Get("/works", s.GetColoringWorks)
	coloring.Delete("/works/:id", s.DeleteColoringWork)

	// Websocket feed. Browsers cannot set the Authorization header on the
	// upgrade request, so the token travels as a query parameter.
	api.Get("/ws", middleware.WebSocketAuthRequired, s.FeedWebSocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Storynest API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil && s.feedHub != nil {
		go func() {
			if err := s.feedHub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start feed hub wiring: %v", err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
