package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/contacts-api/config"
	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/handler"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	"github.com/Payphone-Digital/contacts-api/internal/repository"
	"github.com/Payphone-Digital/contacts-api/internal/router"
	"github.com/Payphone-Digital/contacts-api/internal/service"
	"github.com/Payphone-Digital/contacts-api/pkg/cache"
	"github.com/Payphone-Digital/contacts-api/pkg/circuit"
	"github.com/Payphone-Digital/contacts-api/pkg/database"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/Payphone-Digital/contacts-api/pkg/mail"
	"github.com/Payphone-Digital/contacts-api/pkg/queue"
	"github.com/Payphone-Digital/contacts-api/pkg/redis"
	"github.com/Payphone-Digital/contacts-api/pkg/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(database.Config{
		DSN:             config.Database.URL,
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
		Environment:     config.App.Environment,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully",
		zap.Int("indexes", database.EnsureIndexes(db)),
	)

	sqlDB, err := db.DB()
	if err != nil {
		logger.GetLogger().Fatal("Failed to get database instance", zap.Error(err))
	}

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolTimeout:  config.Redis.PoolTimeout,
	}, logger.GetLogger())

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Without Redis the rate limit counters live in process memory.
	var limits middleware.RateLimitStore = redisClient
	if !redisClient.IsEnabled() {
		memLimits := cache.NewCache(time.Minute)
		defer memLimits.Close()
		limits = memLimits
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:     config.JWT.Secret,
		Algorithm:  config.JWT.Algorithm,
		AccessTTL:  config.JWT.AccessTTL,
		RefreshTTL: config.JWT.RefreshTTL,
		EmailTTL:   config.JWT.EmailTTL,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize token service", zap.Error(err))
	}

	smtp := mail.NewSMTPSender(mail.Config{
		Host:     config.Mail.Host,
		Port:     config.Mail.Port,
		Username: config.Mail.Username,
		Password: config.Mail.Password,
		From:     config.Mail.From,
		FromName: config.Mail.FromName,
	}, logger.GetLogger())
	sender := mail.NewGuardedSender(smtp, circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger()))

	var mailer queue.Dispatcher
	if config.Mail.QueueEnabled && redisClient.IsEnabled() {
		mailer = queue.NewQueue(queue.Config{
			RedisAddr:     config.RedisAddress(),
			RedisPassword: config.Redis.Password,
			RedisDB:       config.Redis.Database,
			Concurrency:   config.Mail.QueueConcurrency,
		}, sender, logger.GetLogger())
	} else {
		mailer = queue.NewDirect(sender, logger.GetLogger())
	}
	if err := mailer.Start(); err != nil {
		logger.GetLogger().Fatal("Failed to start mail dispatcher", zap.Error(err))
	}

	var avatars service.AvatarUploader
	uploader, err := storage.NewCloudinaryUploader(storage.Config{
		CloudName: config.Cloudinary.CloudName,
		APIKey:    config.Cloudinary.APIKey,
		APISecret: config.Cloudinary.APISecret,
		Folder:    config.Cloudinary.Folder,
	}, circuit.NewBreaker("cloudinary", circuit.DefaultConfig(), logger.GetLogger()))
	switch {
	case err == nil:
		avatars = uploader
	case errors.Is(err, storage.ErrNotConfigured):
		logger.GetLogger().Warn("Cloudinary is not configured, avatar uploads are disabled")
	default:
		logger.GetLogger().Fatal("Failed to initialize Cloudinary", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Services
	userCache := service.NewUserCache(redisClient, constants.UserCacheExpiry)
	authService := service.NewAuthService(tokens, userRepo, userCache)
	userService := service.NewUserService(userRepo, tokens, userCache, mailer, avatars)
	contactService := service.NewContactService(contactRepo)

	// Handlers
	contactHandler := handler.NewContactHandler(contactService)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(userService, config.App.BaseURL)
	healthHandler := handler.NewHealthHandler(sqlDB, redisClient)

	// Middleware
	validationMiddleware := middleware.NewValidationMiddleware()
	jwtMiddleware := middleware.NewJWTMiddleware(authService)

	r := router.NewRouter(
		contactHandler,
		userHandler,
		authHandler,
		healthHandler,

		validationMiddleware,
		jwtMiddleware,
		limits,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	shutdownTimeout := config.App.Timeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}

	mailer.Shutdown()

	if err := redisClient.Close(); err != nil {
		logger.GetLogger().Warn("Failed to close Redis client", zap.Error(err))
	}
	if err := database.CloseDB(db); err != nil {
		logger.GetLogger().Warn("Failed to close database", zap.Error(err))
	}

	logger.GetLogger().Info("Server exited")
}
