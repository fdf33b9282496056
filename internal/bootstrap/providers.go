package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/letterboxhq/letterbox-api/internal/adapters/config"
	apphttp "github.com/letterboxhq/letterbox-api/internal/adapters/http"
	"github.com/letterboxhq/letterbox-api/internal/adapters/logger"
	"github.com/letterboxhq/letterbox-api/internal/adapters/middleware"
	appnats "github.com/letterboxhq/letterbox-api/internal/adapters/nats"
	appredis "github.com/letterboxhq/letterbox-api/internal/adapters/redis"
	"github.com/letterboxhq/letterbox-api/internal/adapters/sqlite"
	"github.com/letterboxhq/letterbox-api/internal/application"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// AuthMiddleware is a distinct middleware type so Wire can differentiate it
// from other func(http.Handler) http.Handler values.
type AuthMiddleware func(http.Handler) http.Handler

// InitialZapLoggerProvider provides a basic *zap.Logger instance, primarily for config initialization.
// It returns the logger, a cleanup function (for syncing), and an error if creation fails.
func InitialZapLoggerProvider() (*zap.Logger, func(), error) {
	logger, err := zap.NewProduction()
	if err != nil {
		logger, err = zap.NewDevelopment()
		if err != nil {
			// Unlikely fallback; NewExample never errors.
			logger = zap.NewExample()
			fmt.Fprintf(os.Stderr, "Failed to create initial zap logger (production and development failed, falling back to example): %v\n", err)
		}
	}

	cleanup := func() {
		// Syncing flushes any buffered log entries before exit.
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync initial zap logger: %v\n", syncErr)
		}
	}
	return logger, cleanup, nil
}

// App holds the composed application: the process-wide shared clients and the
// HTTP surface built on top of them.
type App struct {
	configProvider    config.Provider
	logger            domain.Logger
	httpServeMux      *http.ServeMux
	httpServer        *http.Server
	redisClient       *redis.Client
	db                *gorm.DB
	emailPublisher    *appnats.EmailPublisherAdapter
	taskHandler       *apphttp.TaskHandler
	newsletterHandler *apphttp.NewsletterHandler
	authHandler       *apphttp.AuthHandler
	authMiddleware    AuthMiddleware
}

// NewApp is the constructor for App, also for Wire.
func NewApp(
	cfgProvider config.Provider,
	appLogger domain.Logger,
	mux *http.ServeMux,
	server *http.Server,
	redisClient *redis.Client,
	db *gorm.DB,
	emailPublisher *appnats.EmailPublisherAdapter,
	taskHandler *apphttp.TaskHandler,
	newsletterHandler *apphttp.NewsletterHandler,
	authHandler *apphttp.AuthHandler,
	authMiddleware AuthMiddleware,
) (*App, func(), error) {
	app := &App{
		configProvider:    cfgProvider,
		logger:            appLogger,
		httpServeMux:      mux,
		httpServer:        server,
		redisClient:       redisClient,
		db:                db,
		emailPublisher:    emailPublisher,
		taskHandler:       taskHandler,
		newsletterHandler: newsletterHandler,
		authHandler:       authHandler,
		authMiddleware:    authMiddleware,
	}

	cleanup := func() {
		app.logger.Info(context.Background(), "Running app cleanup...")
	}
	return app, cleanup, nil
}

// ConfigProvider provides the application configuration.
func ConfigProvider(appCtx context.Context, logger *zap.Logger) (config.Provider, error) {
	return config.NewViperProvider(appCtx, logger)
}

// LoggerProvider provides the application logger.
func LoggerProvider(cfgProvider config.Provider) (domain.Logger, error) {
	appCfg := cfgProvider.Get()
	return logger.NewZapAdapter(cfgProvider, appCfg.App.ServiceName)
}

// HTTPServeMuxProvider provides the main HTTP multiplexer.
func HTTPServeMuxProvider() *http.ServeMux {
	return http.NewServeMux()
}

// HTTPGracefulServerProvider provides a new HTTP server configured for graceful shutdown.
func HTTPGracefulServerProvider(cfgProvider config.Provider, mux *http.ServeMux) *http.Server {
	appCfg := cfgProvider.Get()

	readTimeout := 10 * time.Second
	writeTimeout := 10 * time.Second
	idleTimeout := 60 * time.Second

	if appCfg.App.WriteTimeoutSeconds > 0 {
		writeTimeout = time.Duration(appCfg.App.WriteTimeoutSeconds) * time.Second
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appCfg.Server.HTTPPort),
		Handler:      middleware.MethodNotAllowedJSON(mux),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// RedisClientProvider provides the process-wide Redis client and a cleanup function.
func RedisClientProvider(cfgProvider config.Provider, appLogger domain.Logger) (*redis.Client, func(), error) {
	appCfg := cfgProvider.Get()
	client := redis.NewClient(&redis.Options{
		Addr:     appCfg.Redis.Address,
		Password: appCfg.Redis.Password,
		DB:       appCfg.Redis.DB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		appLogger.Error(context.Background(), "Failed to connect to Redis", "error", err.Error(), "address", appCfg.Redis.Address)
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", appCfg.Redis.Address, err)
	}
	cleanup := func() {
		client.Close()
		appLogger.Info(context.Background(), "Redis connection closed")
	}
	appLogger.Info(context.Background(), "Successfully connected to Redis", "address", appCfg.Redis.Address)
	return client, cleanup, nil
}

// GormDBProvider provides the process-wide persistent store client and a cleanup function.
func GormDBProvider(cfgProvider config.Provider, appLogger domain.Logger) (*gorm.DB, func(), error) {
	appCfg := cfgProvider.Get()
	db, err := sqlite.Open(appCfg.Database.DSN)
	if err != nil {
		appLogger.Error(context.Background(), "Failed to open persistent store", "error", err.Error(), "dsn", appCfg.Database.DSN)
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		appLogger.Info(context.Background(), "Persistent store connection closed")
	}
	appLogger.Info(context.Background(), "Persistent store ready", "dsn", appCfg.Database.DSN)
	return db, cleanup, nil
}

// CacheStoreProvider provides the cache store port backed by Redis.
func CacheStoreProvider(redisClient *redis.Client, logger domain.Logger) domain.CacheStore {
	return appredis.NewCacheStoreAdapter(redisClient, logger)
}

// EmailPublisherAdapterProvider provides the NATS email publisher (nil when NATS is not configured).
func EmailPublisherAdapterProvider(ctx context.Context, cfgProvider config.Provider, appLogger domain.Logger) (*appnats.EmailPublisherAdapter, func(), error) {
	return appnats.NewEmailPublisherAdapter(ctx, cfgProvider, appLogger)
}

// EmailEventPublisherProvider adapts the concrete publisher to its port,
// collapsing a nil adapter to a nil interface so callers can test for it.
func EmailEventPublisherProvider(adapter *appnats.EmailPublisherAdapter) domain.EmailEventPublisher {
	if adapter == nil {
		return nil
	}
	return adapter
}

// UserRepositoryProvider provides the user repository.
func UserRepositoryProvider(db *gorm.DB) domain.UserRepository {
	return sqlite.NewUserRepository(db)
}

// TaskRepositoryProvider provides the task repository.
func TaskRepositoryProvider(db *gorm.DB) domain.TaskRepository {
	return sqlite.NewTaskRepository(db)
}

// NewsletterRepositoryProvider provides the newsletter repository.
func NewsletterRepositoryProvider(db *gorm.DB) domain.NewsletterRepository {
	return sqlite.NewNewsletterRepository(db)
}

// ListCacheProvider provides the cache-aside list cache.
func ListCacheProvider(cache domain.CacheStore, logger domain.Logger) *application.ListCache {
	return application.NewListCache(cache, logger)
}

// TokenServiceProvider provides the identity token service.
func TokenServiceProvider(logger domain.Logger, cfgProvider config.Provider) *application.TokenService {
	return application.NewTokenService(logger, cfgProvider)
}

// CooldownLimiterProvider provides the cooldown rate limiter.
func CooldownLimiterProvider(cache domain.CacheStore, logger domain.Logger) *application.CooldownLimiter {
	return application.NewCooldownLimiter(cache, logger)
}

// TaskServiceProvider provides the TaskService.
func TaskServiceProvider(repo domain.TaskRepository, listCache *application.ListCache, logger domain.Logger, cfgProvider config.Provider) *application.TaskService {
	return application.NewTaskService(repo, listCache, logger, cfgProvider)
}

// NewsletterServiceProvider provides the NewsletterService.
func NewsletterServiceProvider(repo domain.NewsletterRepository, listCache *application.ListCache, logger domain.Logger, cfgProvider config.Provider) *application.NewsletterService {
	return application.NewNewsletterService(repo, listCache, logger, cfgProvider)
}

// AccountServiceProvider provides the AccountService.
func AccountServiceProvider(
	users domain.UserRepository,
	tokens *application.TokenService,
	cooldown *application.CooldownLimiter,
	emails domain.EmailEventPublisher,
	logger domain.Logger,
	cfgProvider config.Provider,
) *application.AccountService {
	return application.NewAccountService(users, tokens, cooldown, emails, logger, cfgProvider)
}

// TaskHandlerProvider provides the task HTTP handler.
func TaskHandlerProvider(tasks *application.TaskService, logger domain.Logger) *apphttp.TaskHandler {
	return apphttp.NewTaskHandler(tasks, logger)
}

// NewsletterHandlerProvider provides the newsletter HTTP handler.
func NewsletterHandlerProvider(newsletters *application.NewsletterService, logger domain.Logger) *apphttp.NewsletterHandler {
	return apphttp.NewNewsletterHandler(newsletters, logger)
}

// AuthHandlerProvider provides the auth HTTP handler.
func AuthHandlerProvider(accounts *application.AccountService, logger domain.Logger) *apphttp.AuthHandler {
	return apphttp.NewAuthHandler(accounts, logger)
}

// AuthMiddlewareProvider provides the bearer-token middleware for protected endpoints.
func AuthMiddlewareProvider(tokens *application.TokenService, logger domain.Logger) AuthMiddleware {
	return middleware.BearerAuthMiddleware(tokens, logger)
}

// ProviderSet is the Wire provider set for the entire application.
var ProviderSet = wire.NewSet(
	InitialZapLoggerProvider,
	ConfigProvider,
	LoggerProvider,
	HTTPServeMuxProvider,
	HTTPGracefulServerProvider,

	// Infrastructure adapters
	RedisClientProvider,
	GormDBProvider,
	CacheStoreProvider,
	EmailPublisherAdapterProvider,
	EmailEventPublisherProvider,
	UserRepositoryProvider,
	TaskRepositoryProvider,
	NewsletterRepositoryProvider,

	// Application services
	ListCacheProvider,
	TokenServiceProvider,
	CooldownLimiterProvider,
	TaskServiceProvider,
	NewsletterServiceProvider,
	AccountServiceProvider,

	// HTTP surface
	TaskHandlerProvider,
	NewsletterHandlerProvider,
	AuthHandlerProvider,
	AuthMiddlewareProvider,

	NewApp,
)
