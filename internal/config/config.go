package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/docqa-client/internal/pkg/retry"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Question-answering backend
	BackendCfg BackendConfig `envPrefix:"BACKEND_"`

	// Local file selection limits
	UploadCfg UploadConfig `envPrefix:"UPLOAD_"`

	// Telegram front end (only needed by the telegram command)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile  string `env:"LOG_FILE"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type BackendConfig struct {
	HTTPClientConfig
	EndpointConfig
}

// EndpointConfig holds the backend paths, relative to the service URL
type EndpointConfig struct {
	ClearEndpoint  string `env:"CLEAR_ENDPOINT" envDefault:"/clear-qdrant" validate:"startswith=/"`
	UploadEndpoint string `env:"UPLOAD_ENDPOINT" envDefault:"/api/upload" validate:"startswith=/"`
	QAEndpoint     string `env:"QA_ENDPOINT" envDefault:"/api/qa" validate:"startswith=/"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty" validate:"url"`
}

// UploadConfig holds file selection limits
type UploadConfig struct {
	MaxFileSize  int64 `env:"MAX_FILE_SIZE" envDefault:"10485760" validate:"gt=0"` // 10 MiB
	MaxFileCount int   `env:"MAX_FILE_COUNT" envDefault:"20" validate:"min=1,max=100"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string               `env:"BOT_TOKEN"`
	UpdateTimeout      int                  `env:"UPDATE_TIMEOUT" envDefault:"60" validate:"min=1,max=600"`
	RateLimitPerMinute int                  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30" validate:"min=1,max=60"`
	RateLimitBurst     int                  `env:"RATE_LIMIT_BURST" envDefault:"5" validate:"min=1,max=20"`
	SessionTTL         time.Duration        `env:"SESSION_TTL" envDefault:"24h"`
	ShutdownTimeout    int                  `env:"SHUTDOWN_TIMEOUT" envDefault:"30" validate:"min=1,max=300"` // seconds
	SendRetry          pkgRetry.RetryConfig `envPrefix:"SEND_RETRY_"`
}

// LoadConfig reads .env.<environment> (if present) and the process environment.
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	_ = godotenv.Load(envFile)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	cfg.BackendCfg.Url = strings.TrimRight(cfg.BackendCfg.Url, "/")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEndpoints reads only the BACKEND_*_ENDPOINT paths. The stub backend
// serves these without needing a service URL.
func LoadEndpoints(environment string) (EndpointConfig, error) {
	_ = godotenv.Load(getEnvFile(environment))

	var cfg struct {
		Endpoints EndpointConfig `envPrefix:"BACKEND_"`
	}
	if err := env.Parse(&cfg); err != nil {
		return EndpointConfig{}, err
	}

	if err := validateConfig(&cfg); err != nil {
		return EndpointConfig{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg.Endpoints, nil
}

// ValidateTelegram checks the settings that only the bot needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramCfg.SessionTTL < time.Minute {
		return fmt.Errorf("TELEGRAM_SESSION_TTL must be at least 1m, got %s", c.TelegramCfg.SessionTTL)
	}
	return nil
}

func validateConfig(cfg any) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.ActualTag(), fe.Value()))
	}

	return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(messages, "\n  - "))
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
