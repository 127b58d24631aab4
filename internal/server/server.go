package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"echoboard/internal/ai"
	"echoboard/internal/auth"
	"echoboard/internal/config"
	"echoboard/internal/database"
	"echoboard/internal/handler"
	"echoboard/internal/mail"
	"echoboard/internal/middleware"
	"echoboard/internal/repository"
	"echoboard/internal/storage"
	"echoboard/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.Mode)

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	r, err := NewRouter(cfg, db)
	if err != nil {
		return nil, err
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// NewRouter wires repositories, outbound clients and handlers onto a gin
// engine backed by db.
func NewRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	generator, err := ai.New(cfg.AI)
	if err != nil {
		return nil, err
	}
	presigner, err := storage.New(context.Background(), cfg.S3)
	if err != nil {
		return nil, err
	}
	mailer := mail.New(cfg.Mail, cfg.FrontendURL)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokens, mailer)
	passwordHandler := handler.NewPasswordHandler(userRepo, ticketRepo, mailer, cfg.FrontendURL)
	projectHandler := handler.NewProjectHandler(projectRepo, userRepo, taskRepo)
	membershipHandler := handler.NewMembershipHandler(projectRepo, userRepo, membershipRepo)
	taskHandler := handler.NewTaskHandler(projectRepo, taskRepo)
	aiHandler := handler.NewAIHandler(generator, userRepo, projectRepo, taskRepo)
	uploadHandler := handler.NewUploadHandler(presigner)
	healthHandler := handler.NewHealthHandler(sqlDB)

	r.GET("/health", healthHandler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes, rate limited per client IP
	public := r.Group("/")
	public.Use(middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthBurst).Middleware())
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/restore-password", passwordHandler.RequestReset)
		public.POST("/restore-password/:token", passwordHandler.ResetPassword)
	}

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/jwtcheck", userHandler.JWTCheck)
		authorized.GET("/profile", userHandler.GetProfile)
		authorized.PUT("/profile", userHandler.UpdateProfile)
		authorized.DELETE("/user", userHandler.DeleteUser)
		authorized.GET("/user", userHandler.Lookup)

		// Project routes
		authorized.POST("/project", projectHandler.Create)
		authorized.GET("/projects", projectHandler.List)
		authorized.GET("/project/:id", projectHandler.Get)
		authorized.PUT("/project/:id", projectHandler.Update)
		authorized.DELETE("/project/:id", projectHandler.Delete)

		// Membership routes
		authorized.POST("/project/:id/members", membershipHandler.AddMembers)
		authorized.DELETE("/project/:id/member/:member_id", membershipHandler.RemoveMember)

		// Task routes
		authorized.GET("/project/:id/task", taskHandler.List)
		authorized.POST("/project/:id/task", taskHandler.Create)
		authorized.GET("/project/:id/task/:task_id", taskHandler.Get)
		authorized.PUT("/project/:id/task/:task_id", taskHandler.Update)
		authorized.DELETE("/project/:id/task/:task_id", taskHandler.Delete)

		authorized.POST("/uploads/presign", uploadHandler.Presign)
		authorized.POST("/ai/suggest-description", aiHandler.SuggestDescription)
		authorized.POST("/ai/standup", aiHandler.Standup)
	}

	if cfg.StaticDir != "" {
		r.NoRoute(spaHandler(cfg.StaticDir))
	}
	return r, nil
}

// spaHandler serves files from dir and falls back to index.html so the
// frontend router can resolve client-side paths.
func spaHandler(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
			return
		}
		name := filepath.Join(dir, filepath.Clean("/"+strings.TrimPrefix(c.Request.URL.Path, "/")))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}
		c.File(index)
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logger.Info().Str("port", s.Config.ServerPort).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("Server exited properly")
}
