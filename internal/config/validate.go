package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if c.Limits.FreeTrialDailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("LIMITS_FREE_TRIAL_DAILY must be at least 1, got %d", c.Limits.FreeTrialDailyLimit))
	}

	// Missing API keys are reported at call time as configuration errors
	// without detail, so only warn here.
	if c.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is empty, AI operations will fail with a configuration error")
	}
	if c.Checkout.APIKey == "" || c.Checkout.StoreID == "" {
		slog.Warn("LemonSqueezy credentials incomplete, checkout will fail with a configuration error")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
