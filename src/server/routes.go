package server

import (
	"github.com/accountd/api/src/config"
	"github.com/accountd/api/src/handlers/auth"
	"github.com/accountd/api/src/handlers/profile"
	"github.com/accountd/api/src/handlers/system"
	"github.com/accountd/api/src/middleware/logic"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() {
	s.router.GET("/health", system.Health(s.db, s.redis, s.logger))

	// Swagger documentation (only in development)
	if s.cfg.Environment != "production" {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stored photo blobs are served back under durable URLs
	s.router.Static("/static", s.photoStore.BasePath())

	requireAuth := logic.AuthMiddleware(s.jwtService, s.tokenService, s.logger)

	api := s.router.Group("/api")
	{
		// Credential endpoints get a stricter limiter on top of the global one
		authLimiter := logic.NewRateLimiter(&config.Config{RateLimitPerMin: 5})

		api.POST("/register",
			authLimiter.Middleware(),
			auth.RegisterHandler(s.userRepo, s.profileRepo, s.passwordService, s.tokenService, s.emailService, s.logger),
		)
		api.POST("/login",
			authLimiter.Middleware(),
			auth.LoginHandler(s.userRepo, s.jwtService, s.passwordService, s.logger),
		)

		// Logout carries no auth precondition: it is idempotent by contract
		api.POST("/logout", auth.LogoutHandler(s.jwtService, s.tokenService, s.logger))

		api.POST("/verify-email", auth.VerifyEmailHandler(s.userRepo, s.tokenService, s.logger))
		api.POST("/reset-password", auth.ResetPasswordHandler(s.userRepo, s.tokenService, s.emailService, s.logger))
		api.POST("/reset-password/confirm", auth.ConfirmResetPasswordHandler(s.userRepo, s.passwordService, s.tokenService, s.logger))

		api.POST("/change-password",
			requireAuth,
			auth.ChangePasswordHandler(s.userRepo, s.jwtService, s.passwordService, s.tokenService, s.logger),
		)

		api.POST("/update-display-name",
			requireAuth,
			profile.UpdateDisplayNameHandler(s.profileRepo, s.profileCache, s.logger),
		)
		api.POST("/update-profile-photo",
			requireAuth,
			profile.UpdateProfilePhotoHandler(s.profileRepo, s.photoStore, s.profileCache, s.cfg.PublicURL, s.logger),
		)

		api.GET("/user/:userId", profile.GetUserHandler(s.profileRepo, s.profileCache, s.logger))
	}
}
