package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	ListenAddr              string `toml:"listen_addr" mapstructure:"listen_addr"`
	Model                   string `toml:"model" mapstructure:"model"`
	BaseURL                 string `toml:"base_url" mapstructure:"base_url"`
	Token                   string `toml:"token" mapstructure:"token"`
	PersonaFile             string `toml:"persona_file" mapstructure:"persona_file"`
	Normalizer              string `toml:"normalizer" mapstructure:"normalizer"` // "builtin", "service", or "none"
	NormalizerURL           string `toml:"normalizer_url" mapstructure:"normalizer_url"`
	RequestTimeoutSeconds   int    `toml:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	SessionRetentionMinutes int    `toml:"session_retention_minutes" mapstructure:"session_retention_minutes"` // 0 = never evict
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr:              ":8000",
		Model:                   "gpt-4",
		BaseURL:                 "https://api.openai.com/v1",
		Token:                   "$OPENAI_API_KEY", // Default to env var
		PersonaFile:             "",
		Normalizer:              "builtin",
		NormalizerURL:           "",
		RequestTimeoutSeconds:   30,
		SessionRetentionMinutes: 0,
	}
}

// LoadConfig loads configuration from viper and expands environment
// variable references in the token.
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	token, err := expandEnvVar(config.Token)
	if err != nil {
		return nil, err
	}
	config.Token = token

	return config, nil
}

// Validate checks that the config can serve traffic. A missing provider
// credential is a hard startup failure; the service must not accept
// requests it can only answer with 500s.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("provider token is not configured; set it in the config file (token) or the OPENAI_API_KEY environment variable")
	}
	switch c.Normalizer {
	case "builtin", "none":
	case "service":
		if c.NormalizerURL == "" {
			return fmt.Errorf("normalizer is %q but normalizer_url is not set", c.Normalizer)
		}
	default:
		return fmt.Errorf("unsupported normalizer %q (expected builtin, service, or none)", c.Normalizer)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive (got %d)", c.RequestTimeoutSeconds)
	}
	return nil
}

// RequestTimeout returns the provider request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionRetention returns the idle eviction window, or zero when sessions
// are retained for the process lifetime.
func (c *Config) SessionRetention() time.Duration {
	return time.Duration(c.SessionRetentionMinutes) * time.Minute
}

// expandEnvVar expands environment variable references in the given value.
// Supports both $VAR and ${VAR} syntax. If the variable is not set, the
// expansion is empty.
func expandEnvVar(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName), nil
}
