package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Checkout  CheckoutConfig
	Limits    LimitsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OpenAIConfig configures the text-generation backend client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// CheckoutConfig configures the LemonSqueezy hosted-checkout client.
type CheckoutConfig struct {
	APIKey  string
	StoreID string
	BaseURL string
	Timeout time.Duration
}

// LimitsConfig holds free-trial metering settings.
type LimitsConfig struct {
	FreeTrialDailyLimit int
}

// RateLimitConfig holds the per-IP sliding-window limit applied to the
// checkout endpoint.
type RateLimitConfig struct {
	CheckoutMaxRequests int
	CheckoutWindowSec   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  k.String("openai.api.key"),
			BaseURL: k.String("openai.base.url"),
			Model:   k.String("openai.model"),
		},
		Checkout: CheckoutConfig{
			APIKey:  k.String("lemonsqueezy.api.key"),
			StoreID: k.String("lemonsqueezy.store.id"),
			BaseURL: k.String("lemonsqueezy.base.url"),
		},
		Limits: LimitsConfig{
			FreeTrialDailyLimit: k.Int("limits.free.trial.daily"),
		},
		RateLimit: RateLimitConfig{
			CheckoutMaxRequests: k.Int("ratelimit.checkout.max.requests"),
			CheckoutWindowSec:   k.Int("ratelimit.checkout.window.sec"),
		},
		CORS: CORSConfig{
			AllowedOrigins: k.Strings("cors.allowed.origins"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "startupstack"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "startupstack"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-3.5-turbo-0125"
	}
	if cfg.Checkout.BaseURL == "" {
		cfg.Checkout.BaseURL = "https://api.lemonsqueezy.com"
	}
	if cfg.Limits.FreeTrialDailyLimit == 0 {
		cfg.Limits.FreeTrialDailyLimit = 1
	}
	if cfg.RateLimit.CheckoutMaxRequests == 0 {
		cfg.RateLimit.CheckoutMaxRequests = 10
	}
	if cfg.RateLimit.CheckoutWindowSec == 0 {
		cfg.RateLimit.CheckoutWindowSec = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	openaiTimeoutStr := k.String("openai.timeout")
	if openaiTimeoutStr == "" {
		openaiTimeoutStr = "30s"
	}
	cfg.OpenAI.Timeout, err = time.ParseDuration(openaiTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing openai timeout: %w", err)
	}

	checkoutTimeoutStr := k.String("lemonsqueezy.timeout")
	if checkoutTimeoutStr == "" {
		checkoutTimeoutStr = "15s"
	}
	cfg.Checkout.Timeout, err = time.ParseDuration(checkoutTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing lemonsqueezy timeout: %w", err)
	}

	return cfg, nil
}
