// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once at
// process start and treated as read-only afterwards; components receive it
// by reference instead of reading hidden globals.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Retailer   RetailerConfig   `mapstructure:"retailer"`
	Model      ModelConfig      `mapstructure:"model"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Pantry     PantryConfig     `mapstructure:"pantry"`
	AWS        AWSConfig        `mapstructure:"aws"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	FrontendDistDir string        `mapstructure:"frontend_dist_dir"`
}

// RetailerConfig contains the retailer API endpoints and credentials.
// The subscription key is sourced here and nowhere else.
type RetailerConfig struct {
	RecipesURL      string        `mapstructure:"recipes_url"`
	ProductsURL     string        `mapstructure:"products_url"`
	StoresURL       string        `mapstructure:"stores_url"`
	AvailabilityURL string        `mapstructure:"availability_url"`
	SubscriptionKey string        `mapstructure:"subscription_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MainCategory    string        `mapstructure:"main_category"`
	SubCategory     string        `mapstructure:"sub_category"`
}

// ModelConfig contains recommender model configuration
type ModelConfig struct {
	// CheckpointPath is a local file path or an s3://bucket/key URI
	CheckpointPath string `mapstructure:"checkpoint_path"`
	// SuggestionDraws is the default number of prediction draws per request
	SuggestionDraws int `mapstructure:"suggestion_draws"`
	// ColdStartItemRange bounds the random item id substituted when the
	// request carries no items
	ColdStartItemRange int `mapstructure:"cold_start_item_range"`
}

// EnrichmentConfig tunes the availability fan-out
type EnrichmentConfig struct {
	// MaxConcurrentIngredients bounds the parallel per-ingredient checks
	MaxConcurrentIngredients int `mapstructure:"max_concurrent_ingredients"`
}

// PantryConfig lists the static pantry items served by the
// possibly-remaining-ingredients endpoint
type PantryConfig struct {
	ItemIDs []string `mapstructure:"item_ids"`
}

// AWSConfig contains AWS credentials for fetching model checkpoints from S3
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enable         bool `mapstructure:"enable"`
	RequestsPerMin int  `mapstructure:"requests_per_min"`
	BurstSize      int  `mapstructure:"burst_size"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool   `mapstructure:"enable_metrics"`
	HealthCheckPath string `mapstructure:"health_check_path"`
	MetricsPath     string `mapstructure:"metrics_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/reseptori")
	}

	// Enable environment variable override
	v.SetEnvPrefix("RESEPTORI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Reseptori")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.frontend_dist_dir", "./frontend/dist")

	// Retailer defaults. The category pair selects the retailer's dessert
	// recipe section.
	v.SetDefault("retailer.timeout", "10s")
	v.SetDefault("retailer.main_category", "4")
	v.SetDefault("retailer.sub_category", "28")

	// Model defaults
	v.SetDefault("model.checkpoint_path", "./model/classifier.ckpt")
	v.SetDefault("model.suggestion_draws", 5)
	v.SetDefault("model.cold_start_item_range", 7000)

	// Enrichment defaults
	v.SetDefault("enrichment.max_concurrent_ingredients", 4)

	// Pantry defaults
	v.SetDefault("pantry.item_ids", []string{
		"5286", "7191", "6807", "6932", "7532", "8116", "6269", "6751", "6517",
	})

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_min", 60)
	v.SetDefault("rate_limit.burst_size", 10)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.health_check_path", "/health")
	v.SetDefault("monitoring.metrics_path", "/metrics")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Retailer.SubscriptionKey == "" && c.App.Environment == "production" {
		return fmt.Errorf("retailer.subscription_key is required in production")
	}

	if c.Model.SuggestionDraws < 1 {
		return fmt.Errorf("model.suggestion_draws must be at least 1")
	}

	if c.Enrichment.MaxConcurrentIngredients < 1 {
		return fmt.Errorf("enrichment.max_concurrent_ingredients must be at least 1")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
