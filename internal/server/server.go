// Package server contains the HTTP and WebSocket handlers for the blog API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAITARUN432/backendblog/internal/bootstrap"
	"github.com/SAITARUN432/backendblog/internal/config"
	"github.com/SAITARUN432/backendblog/internal/media"
	"github.com/SAITARUN432/backendblog/internal/middleware"
	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/notifications"
	"github.com/SAITARUN432/backendblog/internal/observability"
	"github.com/SAITARUN432/backendblog/internal/repository"
	"github.com/SAITARUN432/backendblog/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

const serviceName = "backendblog-api"

// Deps are the already-initialized collaborators a Server is built from.
type Deps struct {
	Blogs repository.BlogRepository
	Users repository.UserRepository
	Redis *redis.Client
	Media *media.Store
	// Close releases the store connection on shutdown. May be nil.
	Close func(context.Context) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	app            *fiber.App
	redis          *redis.Client
	blogs          repository.BlogRepository
	store          repository.BlogRepository
	media          *media.Store
	hub            *notifications.Hub
	notifier       *notifications.Notifier
	blogService    *service.BlogService
	authService    *service.AuthService
	promMiddleware *fiberprometheus.FiberPrometheus
	closeStore     func(context.Context) error
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
}

// NewServer connects the configured store, Redis and upload directory and
// builds a server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{WithRedis: true})
	if err != nil {
		return nil, err
	}

	uploads, err := media.NewDiskStore(cfg.UploadDir, cfg.MaxUploadMB)
	if err != nil {
		_ = rt.Close(context.Background())
		return nil, err
	}

	return NewServerWithDeps(cfg, Deps{
		Blogs: rt.Blogs,
		Users: rt.Users,
		Redis: rt.Redis,
		Media: uploads,
		Close: rt.CloseStore,
	})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use it with SQLite stores and an in-memory upload filesystem.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Blogs == nil || deps.Users == nil {
		return nil, errors.New("blog and user repositories are required")
	}
	if deps.Media == nil {
		return nil, errors.New("media store is required")
	}

	blogs := repository.NewCachedBlogRepository(deps.Blogs, deps.Redis)
	hub := notifications.NewHub()
	notifier := notifications.NewNotifier(deps.Redis, hub)

	authService := service.NewAuthService(deps.Users, service.AuthConfig{
		JWTSecret:     cfg.JWTSecret,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config:         cfg,
		redis:          deps.Redis,
		blogs:          blogs,
		store:          deps.Blogs,
		media:          deps.Media,
		hub:            hub,
		notifier:       notifier,
		blogService:    service.NewBlogService(blogs, notifier),
		authService:    authService,
		promMiddleware: observability.HTTPMetrics(serviceName),
		closeStore:     deps.Close,
		shutdownCtx:    ctx,
		shutdownFn:     cancel,
	}, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "Blog API",
		BodyLimit:    (s.config.MaxUploadMB + 1) << 20,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request, trace and user ids into the context-aware logger.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded images are embedded by the frontend from another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Static("/uploads", s.config.UploadDir)

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	blogs := app.Group("/api/blogs")
	blogs.Post("/login", s.Login)

	// Define /ws before the generic /:id route.
	blogs.Get("/ws", requireUpgrade, s.BlogEventsHandler())

	blogs.Get("/", s.ListBlogs)
	blogs.Get("/:id", s.GetBlog)

	write := s.writeGuards()
	admin := s.adminGuards()

	blogs.Post("/", append(write, s.CreateBlog)...)
	blogs.Put("/update/:id", append(admin, s.UpdateBlog)...)
	blogs.Delete("/delete/:id", append(admin, s.DeleteBlog)...)
	blogs.Put("/:id/like", append(write, s.ToggleLike)...)
	blogs.Post("/:id/comment", append(write, s.AddComment)...)
	blogs.Put("/:id/comment/:commentId", append(write, s.EditComment)...)
	blogs.Delete("/:id/comment/:commentId", append(write, s.DeleteComment)...)
}

// writeGuards returns the middleware mutating routes run behind. It is empty
// unless ENFORCE_AUTH is set.
func (s *Server) writeGuards() []fiber.Handler {
	if !s.config.EnforceAuth {
		return nil
	}
	return []fiber.Handler{middleware.AuthRequired(s.config.JWTSecret)}
}

func (s *Server) adminGuards() []fiber.Handler {
	if !s.config.EnforceAuth {
		return nil
	}
	return []fiber.Handler{middleware.AuthRequired(s.config.JWTSecret), middleware.AdminRequired()}
}

// Root answers the plain-text liveness banner.
func (s *Server) Root(c *fiber.Ctx) error {
	return c.SendString("Blog API is running...")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the blog store and, when configured, Redis. The API
// works without Redis, so its absence does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "store ping failed", slog.String("error", err.Error()))
		storeStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// errorHandler keeps the status of routing errors such as 404 and 426 and
// turns anything else into an opaque internal error.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start wires the event relay and listens on the configured port.
func (s *Server) Start() error {
	app := s.App()

	if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		middleware.Logger.Error("failed to start event relay",
			slog.String("hub", s.hub.Name()), slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()

	var err error
	if s.app != nil {
		err = multierr.Append(err, s.app.ShutdownWithContext(ctx))
	}
	err = multierr.Append(err, s.hub.Shutdown(ctx))
	if s.closeStore != nil {
		err = multierr.Append(err, s.closeStore(ctx))
	}
	if s.redis != nil {
		err = multierr.Append(err, s.redis.Close())
	}

	if err != nil {
		middleware.Logger.Error("shutdown finished with errors", slog.String("error", err.Error()))
		return err
	}
	middleware.Logger.Info("Server shutdown complete")
	return nil
}
