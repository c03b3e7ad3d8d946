package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Storage      StorageConfig      `yaml:"storage"`
	AuthProvider AuthProviderConfig `yaml:"auth_provider"`
	IPLookup     IPLookupConfig     `yaml:"ip_lookup"`
	Messages     MessagesConfig     `yaml:"messages"`
	ProfileViews ProfileViewsConfig `yaml:"profile_views"`
	Cache        CacheConfig        `yaml:"cache"`
	CORS         CORSConfig         `yaml:"cors"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	Mode            string        `yaml:"mode" env:"GIN_MODE"`
	Env             string        `yaml:"env" env:"APP_ENV"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            int    `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	Name            string `yaml:"name" env:"DB_NAME"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"` // seconds
}

// GetDSN returns the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST"`
	Port     int    `yaml:"port" env:"REDIS_PORT"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE"`
}

// JWTConfig settings for verifying auth provider session tokens
type JWTConfig struct {
	Secret string `yaml:"secret" env:"JWT_SECRET"`
	Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
}

// StorageConfig S3-compatible object storage settings
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled" env:"STORAGE_ENABLED"`
	Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	Region          string `yaml:"region" env:"STORAGE_REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
	PublicBaseURL   string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
	ForcePathStyle  bool   `yaml:"force_path_style" env:"STORAGE_FORCE_PATH_STYLE"`
}

// AuthProviderConfig hosted auth provider settings
type AuthProviderConfig struct {
	URL     string        `yaml:"url" env:"AUTH_PROVIDER_URL"`
	APIKey  string        `yaml:"api_key" env:"AUTH_PROVIDER_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"AUTH_PROVIDER_TIMEOUT"`
}

// IPLookupConfig public IP lookup endpoints
type IPLookupConfig struct {
	PrimaryURL    string        `yaml:"primary_url" env:"IP_LOOKUP_PRIMARY_URL"`
	FallbackURL   string        `yaml:"fallback_url" env:"IP_LOOKUP_FALLBACK_URL"`
	Timeout       time.Duration `yaml:"timeout" env:"IP_LOOKUP_TIMEOUT"`
	TrustClientIP bool          `yaml:"trust_client_ip" env:"IP_LOOKUP_TRUST_CLIENT_IP"`
}

// MessagesConfig message submission settings
type MessagesConfig struct {
	MaxLength                 int             `yaml:"max_length" env:"MESSAGES_MAX_LENGTH"`
	CaptureRegisteredMetadata bool            `yaml:"capture_registered_metadata" env:"MESSAGES_CAPTURE_REGISTERED_METADATA"`
	RateLimit                 RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig per-IP submission limit
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"MESSAGES_RATE_LIMIT_REQUESTS"`
	Window   time.Duration `yaml:"window" env:"MESSAGES_RATE_LIMIT_WINDOW"`
}

// ProfileViewsConfig view tracking settings
type ProfileViewsConfig struct {
	RecordTimeout time.Duration `yaml:"record_timeout" env:"PROFILE_VIEWS_RECORD_TIMEOUT"`
}

// CacheConfig cache TTLs
type CacheConfig struct {
	ProfileTTL time.Duration `yaml:"profile_ttl" env:"CACHE_PROFILE_TTL"`
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "debug",
			Env:             "local",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "whisperbox",
			Name:            "whisperbox",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
			Bucket: "avatars",
		},
		AuthProvider: AuthProviderConfig{
			Timeout: 10 * time.Second,
		},
		IPLookup: IPLookupConfig{
			PrimaryURL:  "https://api.ipify.org?format=json",
			FallbackURL: "https://api64.ipify.org?format=json",
			Timeout:     3 * time.Second,
		},
		Messages: MessagesConfig{
			MaxLength:                 300,
			CaptureRegisteredMetadata: true,
			RateLimit: RateLimitConfig{
				Requests: 10,
				Window:   time.Minute,
			},
		},
		ProfileViews: ProfileViewsConfig{
			RecordTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			ProfileTTL: 5 * time.Minute,
		},
		CORS: CORSConfig{
			AllowOrigins: "http://localhost:3000",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment overrides.
// A missing file is not an error; the defaults and environment are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Messages.MaxLength <= 0 {
		return fmt.Errorf("messages.max_length must be positive")
	}
	if !c.IsDevelopment() && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required outside development")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}
	return nil
}

// IsDevelopment reports whether the app runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development", "test":
		return true
	}
	return false
}
