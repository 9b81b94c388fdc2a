// Package router assembles the Gin engine: middleware stack, public
// endpoints and the authenticated API surface.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mealportal/backend/internal/infrastructure/auth"
	"github.com/mealportal/backend/internal/infrastructure/config"
	"github.com/mealportal/backend/internal/infrastructure/logger"
	"github.com/mealportal/backend/internal/interfaces/http/handler"
	"github.com/mealportal/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Deps carries everything the router needs to wire routes.
type Deps struct {
	Config        *config.Config
	Logger        *zap.Logger
	JWTService    *auth.JWTService
	BrandProfiles *handler.BrandProfileHandler
	Users         *handler.UserHandler
	// Health reports process and database liveness on GET /health.
	Health gin.HandlerFunc
}

// New builds the engine with the full middleware stack and all routes
// registered.
func New(d Deps) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()

	if len(d.Config.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(d.Config.HTTP.TrustedProxies); err != nil {
			d.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(d.Logger))
	engine.Use(logger.GinMiddleware(d.Logger))
	if d.Config.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(d.Config.Telemetry.ServiceName))
	}
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = d.Config.HTTP.CORSAllowOrigins
	if len(d.Config.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = d.Config.HTTP.CORSAllowMethods
	}
	if len(d.Config.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = d.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(d.Config.HTTP.MaxBodySize))

	if d.Health != nil {
		engine.GET("/health", d.Health)
	}

	api := engine.Group("/api")

	// Signup verification and password recovery run before the caller
	// holds a token.
	api.POST("/user/:id/verify-otp", d.Users.VerifyOTP)
	api.POST("/user/:id/resend-otp", d.Users.ResendOTP)
	api.POST("/forgot-password", d.Users.InitiateForgotPassword)
	api.GET("/forgot-password/:otp", d.Users.GetForgotPasswordRequest)
	api.POST("/reset-password", d.Users.ResetPassword)

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(d.JWTService))

	protected.POST("/brand-profile/availability", d.BrandProfiles.CheckNameAvailability)
	protected.POST("/brand-profile", d.BrandProfiles.Create)
	protected.GET("/brand-profile/:id", d.BrandProfiles.Get)
	protected.PUT("/brand-profile/:id", d.BrandProfiles.Update)
	protected.DELETE("/brand-profile/:id", d.BrandProfiles.Delete)
	protected.GET("/brand-profiles", d.BrandProfiles.List)
	protected.GET("/brand-profile/:id/plans", d.BrandProfiles.GetPlans)
	protected.PUT("/brand-profile/:id/plans", d.BrandProfiles.BulkUpdatePlans)

	protected.POST("/user", d.Users.Create)
	protected.POST("/username-availability", d.Users.CheckUsernameAvailability)
	protected.GET("/user/:id", d.Users.Get)
	protected.PUT("/user/:id", d.Users.Update)
	protected.DELETE("/user/:id", d.Users.Delete)
	protected.GET("/users", d.Users.List)
	protected.POST("/user/:id/upload-image", d.Users.UploadImage)

	return engine
}
