package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auth_repo "github.com/accountd/api/src/repository/auth"
	profile_repo "github.com/accountd/api/src/repository/profile"

	"github.com/accountd/api/src/config"
	"github.com/accountd/api/src/database"
	domain "github.com/accountd/api/src/domain/account"
	"github.com/accountd/api/src/drivers/storage"
	"github.com/accountd/api/src/middleware"
	"github.com/accountd/api/src/middleware/core"
	"github.com/accountd/api/src/middleware/logic"
	"github.com/accountd/api/src/services/operations"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// profileCacheTTL bounds staleness of the Redis profile view
const profileCacheTTL = 5 * time.Minute

// Server holds all dependencies for the API server
type Server struct {
	cfg    *config.Config
	logger *logrus.Logger
	router *gin.Engine
	db     *database.DB
	redis  *database.RedisClient
	dbx    *sqlx.DB

	// Repositories
	userRepo    *auth_repo.UserRepository
	profileRepo *profile_repo.ProfileRepository

	// Services
	jwtService      *security.JWTService
	passwordService *security.PasswordService
	tokenService    *security.TokenService
	emailService    *operations.EmailService
	photoStore      *storage.LocalStore
	profileCache    *database.ViewCache[domain.Profile]
}

// NewServer creates and initializes all server dependencies
func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	if err := s.initDatabase(); err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	if err := s.initRepositories(); err != nil {
		return nil, fmt.Errorf("repository init failed: %w", err)
	}

	if err := s.initServices(); err != nil {
		return nil, fmt.Errorf("service init failed: %w", err)
	}

	s.initRouter()
	s.SetupRoutes()

	return s, nil
}

// initDatabase establishes database connections
func (s *Server) initDatabase() error {
	var err error

	s.db, err = database.NewPostgresConnection(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}

	s.redis, err = database.NewRedisConnection(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}

	s.dbx = sqlx.NewDb(s.db.DB, "postgres")
	return nil
}

// initRepositories initializes the data access layers and bootstraps schema
func (s *Server) initRepositories() error {
	s.userRepo = auth_repo.NewUserRepository(s.db, s.logger)
	if err := s.userRepo.EnsureTable(context.Background()); err != nil {
		return fmt.Errorf("users table init failed: %w", err)
	}

	s.profileRepo = profile_repo.NewProfileRepository(s.dbx, s.logger)
	if err := s.profileRepo.EnsureTable(context.Background()); err != nil {
		return fmt.Errorf("profiles table init failed: %w", err)
	}

	return nil
}

// initServices initializes the business logic services
func (s *Server) initServices() error {
	s.jwtService = security.NewJWTService(s.cfg.JWTSecret, s.logger)
	s.passwordService = security.NewPasswordService()
	s.tokenService = security.NewTokenService(s.redis, s.logger)
	s.emailService = operations.NewEmailService(s.cfg, s.logger)
	s.profileCache = database.NewViewCache[domain.Profile](s.redis, profileCacheTTL, s.logger)

	store, err := storage.NewLocalStore(s.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("local store init failed: %w", err)
	}
	s.photoStore = store
	s.logger.WithField("path", store.BasePath()).Info("Photo store initialized")

	return nil
}

// initRouter creates and configures the Gin router
func (s *Server) initRouter() {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Middleware chain (onion order)
	rateLimiter := logic.NewRateLimiter(s.cfg)
	s.router.Use(
		core.PanicRecovery(s.logger),
		core.RequestID(),
		core.GinSecureHeaders(),
		middleware.CORS(s.cfg, s.logger),
		rateLimiter.Middleware(),
		core.AuditLogger(s.logger),
	)

	// Environment context, read by the cookie helpers
	s.router.Use(func(c *gin.Context) {
		c.Set("environment", s.cfg.Environment)
		c.Set("cookie_domain", s.cfg.CookieDomain)
		c.Next()
	})
}

// Run starts the HTTP server and waits for a shutdown signal
func (s *Server) Run() error {
	secureHandler := core.SecureHeaders(s.router)

	srv := &http.Server{
		Addr:           "0.0.0.0:" + s.cfg.Port,
		Handler:        secureHandler,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Error("Server forced to shutdown")
		return err
	}

	s.logger.Info("Server exited")
	return nil
}

// Close cleans up all resources
func (s *Server) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}
