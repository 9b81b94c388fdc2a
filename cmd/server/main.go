package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"

	brandapp "github.com/mealportal/backend/internal/application/brand"
	identityapp "github.com/mealportal/backend/internal/application/identity"
	"github.com/mealportal/backend/internal/infrastructure/auth"
	"github.com/mealportal/backend/internal/infrastructure/cache"
	"github.com/mealportal/backend/internal/infrastructure/config"
	"github.com/mealportal/backend/internal/infrastructure/keycloak"
	"github.com/mealportal/backend/internal/infrastructure/logger"
	"github.com/mealportal/backend/internal/infrastructure/migration"
	"github.com/mealportal/backend/internal/infrastructure/notification"
	"github.com/mealportal/backend/internal/infrastructure/persistence"
	"github.com/mealportal/backend/internal/infrastructure/storage"
	"github.com/mealportal/backend/internal/infrastructure/telemetry"
	"github.com/mealportal/backend/internal/interfaces/http/handler"
	"github.com/mealportal/backend/internal/interfaces/http/router"
)

const (
	migrationsPath  = "migrations"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting meal portal backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	brandProfileRepo := persistence.NewGormBrandProfileRepository(db.DB)
	menuGroupRepo := persistence.NewGormMenuGroupRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	otpRepo := persistence.NewGormOTPRepository(db.DB)
	userImageRepo := persistence.NewGormUserImageRepository(db.DB)

	// External collaborators
	var provider identityapp.IdentityProvider
	if cfg.App.Env == "development" && cfg.Keycloak.BaseURL == "" {
		provider = keycloak.NewStubProvider()
		log.Warn("Keycloak base URL not set, using in-memory identity provider")
	} else {
		kc, err := keycloak.NewClient(&cfg.Keycloak, log)
		if err != nil {
			log.Fatal("Failed to initialize Keycloak client", zap.Error(err))
		}
		provider = kc
	}

	var mailer identityapp.Mailer
	if cfg.Mail.Mock {
		mailer = notification.NewLogMailer(log)
	} else {
		sesMailer, err := notification.NewSESMailer(ctx, &cfg.Mail, cfg.App.PortalBaseURL, log)
		if err != nil {
			log.Fatal("Failed to initialize SES mailer", zap.Error(err))
		}
		mailer = sesMailer
	}

	var objectStorage identityapp.ObjectStorage
	if cfg.Storage.Mock {
		objectStorage = storage.NewStubObjectStorage(cfg.Storage.Bucket)
	} else {
		s3Storage, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	}

	var limiter identityapp.OTPLimiter
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		limiter = cache.NewRedisOTPLimiter(redisClient)
		log.Info("Redis OTP limiter enabled")
	} else {
		limiter = cache.NewInMemoryOTPLimiter()
	}

	// Application services
	otpService := identityapp.NewOTPService(otpRepo, userRepo, provider, mailer, limiter, log)
	userService := identityapp.NewUserService(
		userRepo, roleRepo, userImageRepo, brandProfileRepo,
		otpService, provider, objectStorage, log)
	brandProfileService := brandapp.NewBrandProfileService(brandProfileRepo, menuGroupRepo, log)

	jwtService, err := auth.NewJWTService(&cfg.JWT)
	if err != nil {
		log.Fatal("Failed to initialize JWT service", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Deps{
		Config:        cfg,
		Logger:        log,
		JWTService:    jwtService,
		BrandProfiles: handler.NewBrandProfileHandler(brandProfileService, log),
		Users:         handler.NewUserHandler(userService, otpService, log),
		Health:        healthHandler(db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "up"})
	}
}
