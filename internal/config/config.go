package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`

	// Database Configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Token signing
	Auth AuthConfig `mapstructure:"auth"`

	// Email Configuration (optional)
	Email EmailConfig `mapstructure:"email"`

	Redis RedisConfig `mapstructure:"redis"`
	NATS  NATSConfig  `mapstructure:"nats"`

	// Logging Configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Moderation and verification-code knobs
	Moderation ModerationConfig `mapstructure:"moderation"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	GRPCPort     string `mapstructure:"grpc_port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	Environment  string `mapstructure:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql, postgres
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DatabaseName string `mapstructure:"database_name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// EmailConfig contains email service configuration (optional)
type EmailConfig struct {
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
	Enabled   bool   `mapstructure:"enabled"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

type ModerationConfig struct {
	ReportThreshold   int           `mapstructure:"report_threshold"`
	CodeTTL           time.Duration `mapstructure:"code_ttl"`
	CodeRequestLimit  int           `mapstructure:"code_request_limit"`
	CodeRequestWindow time.Duration `mapstructure:"code_request_window"`
	BestTagsTTL       time.Duration `mapstructure:"best_tags_ttl"`
}

// Load reads defaults, an optional config.yaml and the environment, in that order.
// Environment keys are the upper-cased paths with dots replaced: DATABASE_HOST, AUTH_JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	configureViper(v)

	if err := readConfiguration(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.grpc_port", "9090")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.environment", "development")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "thanksboard")
	v.SetDefault("database.password", "thanksboard")
	v.SetDefault("database.database_name", "thanksboard")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "thanksboard")
	v.SetDefault("auth.access_token_ttl", "1h")
	v.SetDefault("auth.refresh_token_ttl", "720h")

	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.from_name", "Thanksboard")
	v.SetDefault("email.enabled", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "thanksboard")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("moderation.report_threshold", 5)
	v.SetDefault("moderation.code_ttl", "30m")
	v.SetDefault("moderation.code_request_limit", 3)
	v.SetDefault("moderation.code_request_window", "10m")
	v.SetDefault("moderation.best_tags_ttl", "5m")
}

func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func readConfiguration(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func (cfg *Config) IsDevelopment() bool {
	return cfg.Server.Environment == "development"
}

func (cfg *Config) Validate() error {
	if cfg.Auth.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return errors.New("AUTH_JWT_SECRET must be set outside development")
		}
		cfg.Auth.JWTSecret = "dev-only-secret"
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return errors.New("token ttls must be positive")
	}
	if cfg.Moderation.ReportThreshold < 1 {
		return errors.New("moderation.report_threshold must be at least 1")
	}
	if cfg.Moderation.CodeTTL <= 0 {
		return errors.New("moderation.code_ttl must be positive")
	}
	switch cfg.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	return nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) PostgresDSN() string {
	port := cfg.Database.Port
	if port == "" || port == "3306" {
		port = "5432"
	}
	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.DatabaseName,
		port,
		sslMode,
	)
}
