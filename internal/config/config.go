package config

import (
	"os"
	"time"

	"github.com/teemow/voicecal/internal/errs"
)

// Environment variable names understood by Load.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvModel        = "VOICECAL_MODEL"
	EnvTimezone     = "VOICECAL_TIMEZONE"
	EnvVoice        = "VOICECAL_VOICE"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultModel    = "gpt-4o"
	DefaultTimezone = "America/New_York"
	DefaultVoice    = "alloy"
)

// Config holds the runtime configuration for the assistant.
type Config struct {
	// OpenAIAPIKey authenticates both the chat model and the speech
	// endpoints. Required.
	OpenAIAPIKey string

	// Model is the chat model used by the agent loop.
	Model string

	// Timezone is the IANA timezone name in which spoken dates and times
	// are interpreted.
	Timezone string

	// Voice is the TTS voice used for spoken responses.
	Voice string

	location *time.Location
}

// Load reads configuration from the environment. A missing API key is a
// fatal ConfigError; the process must not proceed without it.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey: os.Getenv(EnvOpenAIAPIKey),
		Model:        getEnvOrDefault(EnvModel, DefaultModel),
		Timezone:     getEnvOrDefault(EnvTimezone, DefaultTimezone),
		Voice:        getEnvOrDefault(EnvVoice, DefaultVoice),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, errs.NewConfigError(EnvOpenAIAPIKey, "environment variable not set")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, errs.NewConfigError(EnvTimezone, "unknown timezone "+cfg.Timezone)
	}
	cfg.location = loc

	return cfg, nil
}

// Location returns the resolved timezone location.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
