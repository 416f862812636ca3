package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Cache     CacheConfig
	Mongo     MongoConfig
	Providers ProvidersConfig
	Routing   RoutingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// CacheConfig holds the fast-layer cache configuration
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// MongoConfig holds the persistent store configuration
type MongoConfig struct {
	URI       string
	Database  string
	Freshness time.Duration // how old a persisted route may be and still count as fresh
}

// ProvidersConfig holds the external service endpoints
type ProvidersConfig struct {
	ValhallaHostedURL string
	ValhallaAPIKey    string
	ValhallaQuota     int64 // monthly free-tier ceiling for the hosted engine
	ValhallaSelfURL   string
	OSRMURL           string
	NominatimURL      string
	OverpassURL       string
}

// RoutingConfig holds route planning behavior settings
type RoutingConfig struct {
	MaxHoursPerDay float64
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.tripweaver")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.ginmode", "release")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("cache.redisaddr", "localhost:6379")
	viper.SetDefault("cache.redispassword", "")
	viper.SetDefault("cache.redisdb", 0)
	viper.SetDefault("cache.ttl", 15*time.Minute)
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "tripweaver")
	viper.SetDefault("mongo.freshness", 30*24*time.Hour)
	viper.SetDefault("providers.valhallahostedurl", "https://api.stadiamaps.com")
	viper.SetDefault("providers.valhallaapikey", "")
	viper.SetDefault("providers.valhallaquota", 2500)
	viper.SetDefault("providers.valhallaselfurl", "")
	viper.SetDefault("providers.osrmurl", "https://router.project-osrm.org")
	viper.SetDefault("providers.nominatimurl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("providers.overpassurl", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("routing.maxhoursperday", 8)

	viper.SetEnvPrefix("TRIPWEAVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
