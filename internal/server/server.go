package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "taskmanager/docs"
	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/handler"
	"taskmanager/internal/middleware"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

// Init connects to the database, applies migrations when AUTO_MIGRATE is on
// and builds the HTTP server.
func Init(cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db, cfg); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}

	s, err := New(cfg, db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return s, nil
}

// New wires repositories, services and handlers on top of an open database
// and seeds the default task types.
func New(cfg *config.Config, db *gorm.DB) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	store := repository.NewStore(db)

	taskTypeService := service.NewTaskTypeService(store)
	taskService := service.NewTaskService(store)
	templateService := service.NewTemplateService(store)
	requirementsService := service.NewRequirementsService(store)

	if err := taskTypeService.EnsureDefaults(log.Logger.WithContext(context.Background())); err != nil {
		return nil, fmt.Errorf("seeding default task types: %w", err)
	}

	taskTypeHandler := handler.NewTaskTypeHandler(taskTypeService)
	taskHandler := handler.NewTaskHandler(taskService)
	templateHandler := handler.NewTaskTemplateHandler(templateService)
	requirementsHandler := handler.NewRequirementsHandler(requirementsService)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log.Logger))

	// Public routes
	r.GET("/health", healthHandler(store))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var authMiddleware []gin.HandlerFunc
	if cfg.AuthEnabled() {
		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry())
		authMiddleware = append(authMiddleware, middleware.JWTAuthMiddleware(tokens))
	} else {
		log.Warn().Msg("JWT_SECRET is empty, API routes are not authenticated")
	}

	// The same routes are served at the root and under /api.
	for _, prefix := range []string{"/", "/api"} {
		g := r.Group(prefix, authMiddleware...)
		{
			// Task type routes
			g.GET("/task-types", taskTypeHandler.List)
			g.GET("/task-types/:id", taskTypeHandler.Get)
			g.POST("/task-types", taskTypeHandler.Create)
			g.PUT("/task-types/:id", taskTypeHandler.Update)
			g.DELETE("/task-types/:id", taskTypeHandler.Delete)

			// Task routes
			g.GET("/tasks", taskHandler.List)
			g.GET("/tasks/:id", taskHandler.Get)
			g.POST("/tasks", taskHandler.Create)
			g.PUT("/tasks/:id", taskHandler.Update)
			g.DELETE("/tasks/:id", taskHandler.Delete)
			g.GET("/tasks/:id/related", taskHandler.Related)
			g.POST("/tasks/:id/link", taskHandler.Link)
			g.POST("/tasks/:id/unlink", taskHandler.Unlink)

			// Template routes
			g.GET("/task-templates", templateHandler.List)
			g.GET("/task-templates/:id", templateHandler.Get)
			g.POST("/task-templates", templateHandler.Create)
			g.PUT("/task-templates/:id", templateHandler.Update)
			g.DELETE("/task-templates/:id", templateHandler.Delete)
			g.POST("/task-templates/:id/generate", templateHandler.Generate)

			// Requirements routes
			g.POST("/requirements/import", requirementsHandler.Import)
		}
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// healthHandler godoc
// @Summary Liveness and database check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", s.Config.ServerPort).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		_ = database.Close(s.DB)
		return fmt.Errorf("failed to listen: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := database.Close(s.DB); err != nil {
		log.Warn().Err(err).Msg("closing database")
	}

	log.Info().Msg("server exited properly")
	return nil
}
