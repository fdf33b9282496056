package config

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "LETTERBOX"

// ServerConfig holds server-related configurations.
// Note: Fields should be exported (start with uppercase) to be unmarshalled by Viper.
type ServerConfig struct {
	HTTPPort int `mapstructure:"http_port"`
}

// RedisConfig holds cache-store-related configurations.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"` // Optional
	DB       int    `mapstructure:"db"`       // Optional
}

// DatabaseConfig holds persistent-store-related configurations.
type DatabaseConfig struct {
	// DSN is the sqlite connection string, e.g. a file path or
	// "file::memory:?cache=shared" for ephemeral runs.
	DSN string `mapstructure:"dsn"`
}

// NATSConfig holds configuration of the outbound email event transport.
type NATSConfig struct {
	URL string `mapstructure:"url"` // Empty disables email dispatch
	// EmailSubject is the subject confirmation email events are published on.
	EmailSubject string `mapstructure:"email_subject"`
}

// LogConfig holds logging-related configurations.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig holds authentication-related configurations.
type AuthConfig struct {
	JWTSecret              string `mapstructure:"jwt_secret"` // Should primarily come from ENV
	SessionTokenTTLSeconds int    `mapstructure:"session_token_ttl_seconds"`
	ConfirmTokenTTLSeconds int    `mapstructure:"confirm_token_ttl_seconds"`
	BcryptCost             int    `mapstructure:"bcrypt_cost"`
}

// AppConfig holds application-specific configurations.
type AppConfig struct {
	ServiceName            string `mapstructure:"service_name"`
	Version                string `mapstructure:"version"`
	BaseURL                string `mapstructure:"base_url"` // Base for verification links
	ListCacheTTLSeconds    int    `mapstructure:"list_cache_ttl_seconds"`
	ResendCooldownSeconds  int    `mapstructure:"resend_cooldown_seconds"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds"`
}

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	App      AppConfig      `mapstructure:"app"`
}

// Provider defines an interface for accessing application configuration.
// This allows for easy mocking in tests and decouples the app from Viper.
type Provider interface {
	Get() *Config
}

// viperProvider implements the Provider interface using Viper.
type viperProvider struct {
	config *Config
	logger *zap.Logger // Using zap.Logger directly for config internal logging, not domain.Logger to avoid circular deps
}

// NewViperProvider creates and initializes a new configuration provider using Viper.
// It loads configuration from file and environment variables, and sets up hot-reloading.
// A basic logger (e.g., zap.NewProduction()) should be passed for internal logging during setup.
// appCtx is the application lifecycle context used for graceful shutdown of background tasks.
func NewViperProvider(appCtx context.Context, logger *zap.Logger) (Provider, error) {
	cfg := &Config{}
	v := viper.New()

	v.SetDefault("server.http_port", 3000)
	v.SetDefault("log.level", "info")
	v.SetDefault("app.service_name", "letterbox-api")
	v.SetDefault("app.list_cache_ttl_seconds", 60)
	v.SetDefault("app.resend_cooldown_seconds", 60)
	v.SetDefault("nats.email_subject", "letterbox.email.confirmation.requested")

	// Configure Viper to read from YAML file
	v.SetConfigName(os.Getenv("VIPER_CONFIG_NAME"))
	v.SetConfigType("yaml")
	v.AddConfigPath(os.Getenv("VIPER_CONFIG_PATH"))
	v.AddConfigPath(".") // Also look in current directory for local dev

	// Configure Viper to read from environment variables
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")) // e.g., server.http_port becomes SERVER_HTTP_PORT

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Warn("Config file not found; relying on defaults and environment variables", zap.Error(err))
		} else {
			logger.Error("Failed to read config file", zap.Error(err))
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		logger.Error("Failed to unmarshal config", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	p := &viperProvider{
		config: cfg,
		logger: logger,
	}

	// Set up SIGHUP for hot-reloading configuration
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Panic recovered in SIGHUP handler goroutine",
					zap.String("goroutine_name", "SIGHUPConfigReloader"),
					zap.Any("panic_info", r),
					zap.String("stacktrace", string(debug.Stack())),
				)
			}
		}()
		for {
			select {
			case sig := <-sigChan:
				p.logger.Info("SIGHUP received, attempting to reload configuration...", zap.String("signal", sig.String()))
				if err := v.ReadInConfig(); err != nil {
					p.logger.Error("Failed to re-read config file on SIGHUP", zap.Error(err))
				} else {
					newCfg := &Config{}
					if err := v.Unmarshal(newCfg); err != nil {
						p.logger.Error("Failed to unmarshal re-read config on SIGHUP", zap.Error(err))
					} else {
						p.config = newCfg
						p.logger.Info("Configuration reloaded successfully via SIGHUP")
					}
				}
			case <-appCtx.Done():
				p.logger.Info("SIGHUPConfigReloader goroutine shutting down due to context cancellation.")
				return
			}
		}
	}()

	// Watch for config file changes (useful for local dev, less so in containers usually)
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Panic recovered in OnConfigChange callback",
					zap.String("event_name", e.Name),
					zap.String("event_op", e.Op.String()),
					zap.Any("panic_info", r),
					zap.String("stacktrace", string(debug.Stack())),
				)
			}
		}()
		p.logger.Info("Config file changed", zap.String("name", e.Name), zap.String("op", e.Op.String()))
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			p.logger.Error("Failed to unmarshal config on file change event", zap.Error(err))
		} else {
			p.config = newCfg
			p.logger.Info("Configuration reloaded successfully via file change event")
		}
	})

	p.logger.Info("Configuration loaded successfully", zap.String("config_file_used", v.ConfigFileUsed()))

	return p, nil
}

// Get returns the current configuration.
func (p *viperProvider) Get() *Config {
	return p.config
}

// Static wraps an already-built Config in a Provider, for tests.
func Static(cfg *Config) Provider {
	return &staticProvider{config: cfg}
}

type staticProvider struct {
	config *Config
}

func (p *staticProvider) Get() *Config {
	return p.config
}
