// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Thumbnail ThumbnailConfig
	Auth      AuthConfig
	Upload    UploadConfig
	Logging   LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains PostgreSQL connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// StorageConfig contains object store (MinIO) configuration. PublicBaseURL is
// the externally resolvable address embedded in download URLs.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
}

// RedisConfig contains the feed cache configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	FeedTTL  time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and queue configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// ThumbnailConfig contains the generative-AI thumbnail service configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ThumbnailConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// AuthConfig contains JWT session configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// UploadConfig contains upload size bounds.
type UploadConfig struct {
	MaxVideoSize     int64
	MaxThumbnailSize int64
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "sportscast")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 30*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Storage
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accesskey", "minioadmin")
	viper.SetDefault("storage.secretkey", "minioadmin")
	viper.SetDefault("storage.bucket", "sportscast-videos")
	viper.SetDefault("storage.publicbaseurl", "http://localhost:9000")
	viper.SetDefault("storage.usessl", false)

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.feedttl", 60*time.Second)

	// RabbitMQ
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "sportscast.videos")
	viper.SetDefault("rabbitmq.queue", "sportscast.videos.events")
	viper.SetDefault("rabbitmq.routingkey", "video.event")

	// Thumbnail generation
	viper.SetDefault("thumbnail.baseurl", "http://localhost:3400")
	viper.SetDefault("thumbnail.model", "imagen-4.0-fast-generate-001")
	viper.SetDefault("thumbnail.apikey", "")
	viper.SetDefault("thumbnail.timeout", 60*time.Second)

	// Auth
	viper.SetDefault("auth.jwtsecret", "")
	viper.SetDefault("auth.tokenttl", 7*24*time.Hour)

	// Upload bounds
	viper.SetDefault("upload.maxvideosize", int64(50*1024*1024))    // 50MB
	viper.SetDefault("upload.maxthumbnailsize", int64(5*1024*1024)) // 5MB

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
