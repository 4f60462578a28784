package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	UPSTREAM_BASE_URL=https://archives.nseindia.com
//	ANALYSIS_DAYS=5
//	POSTGRES_ENABLED=false
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Analysis AnalysisConfig
	Postgres PostgresConfig
	Tracing  TracingConfig
}

// ServerConfig holds HTTP server settings.
//
// WriteTimeout of zero leaves streamed responses unbounded. RequestTimeout
// applies to plain JSON endpoints only.
type ServerConfig struct {
	Port               string        `validate:"required,numeric"`
	WriteTimeout       time.Duration `validate:"gte=0"`
	RequestTimeout     time.Duration `validate:"required"`
	RateLimitPerMinute int           `validate:"gte=0"`
}

// UpstreamConfig describes the exchange archive and how politely to call it.
type UpstreamConfig struct {
	BaseURL       string        `validate:"required,url"`
	Referer       string        `validate:"required"`
	UserAgent     string        `validate:"required"`
	Timeout       time.Duration `validate:"required"`
	RatePerSecond float64       `validate:"gte=0"`
}

// AnalysisConfig holds run defaults; a request may override Days.
type AnalysisConfig struct {
	Days     int `validate:"min=1,max=30"`
	Parallel int `validate:"min=1,max=30"`
}

// PostgresConfig defines the optional run journal connection.
// Connection fields are only required when Enabled is set.
type PostgresConfig struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     int    `validate:"required_if=Enabled true"`
	User     string `validate:"required_if=Enabled true"`
	Password string `validate:"required_if=Enabled true"`
	DBName   string `validate:"required_if=Enabled true"`
	SSLMode  string
	URL      string
}

type TracingConfig struct {
	Enabled bool
}

// AppConfig is the globally accessible configuration instance, populated once via LoadConfig().
var AppConfig Config

var validate = validator.New()

// LoadConfig initializes the global AppConfig from defaults, an optional .env
// file and environment variables (lowest to highest precedence), then calls
// validateConfig(), which terminates the process on invalid settings.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "0s")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 30)

	viper.SetDefault("UPSTREAM_BASE_URL", "https://archives.nseindia.com")
	viper.SetDefault("UPSTREAM_REFERER", "https://www.nseindia.com/")
	viper.SetDefault("UPSTREAM_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	viper.SetDefault("UPSTREAM_TIMEOUT", "15s")
	viper.SetDefault("UPSTREAM_RATE_PER_SECOND", 2)

	viper.SetDefault("ANALYSIS_DAYS", 5)
	viper.SetDefault("ANALYSIS_PARALLEL", 1)

	viper.SetDefault("POSTGRES_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "dealpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("TRACING_ENABLED", false)

	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			WriteTimeout:       viper.GetDuration("SERVER_WRITE_TIMEOUT"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Upstream: UpstreamConfig{
			BaseURL:       viper.GetString("UPSTREAM_BASE_URL"),
			Referer:       viper.GetString("UPSTREAM_REFERER"),
			UserAgent:     viper.GetString("UPSTREAM_USER_AGENT"),
			Timeout:       viper.GetDuration("UPSTREAM_TIMEOUT"),
			RatePerSecond: viper.GetFloat64("UPSTREAM_RATE_PER_SECOND"),
		},
		Analysis: AnalysisConfig{
			Days:     viper.GetInt("ANALYSIS_DAYS"),
			Parallel: viper.GetInt("ANALYSIS_PARALLEL"),
		},
		Postgres: PostgresConfig{
			Enabled:  viper.GetBool("POSTGRES_ENABLED"),
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Tracing: TracingConfig{
			Enabled: viper.GetBool("TRACING_ENABLED"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// validateConfig terminates the application with log.Fatalf when AppConfig is invalid.
func validateConfig() {
	if problems := configProblems(AppConfig); len(problems) > 0 {
		log.Fatalf("invalid configuration: %v\n", problems)
	}
}

// configProblems lists each failing field as "Section.Field(tag)".
func configProblems(cfg Config) []string {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s(%s)", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
	}
	return problems
}
