// Package config loads medassist settings from an optional YAML file and
// MEDASSIST_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Claims   ClaimsConfig   `mapstructure:"claims"`
	Context  ContextConfig  `mapstructure:"context"`
	Log      LogConfig      `mapstructure:"log"`
}

type ProviderConfig struct {
	Backend string        `mapstructure:"backend"`
	Timeout time.Duration `mapstructure:"timeout"`
	Lang    string        `mapstructure:"lang"`
}

type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	Model     string `mapstructure:"model"`
}

type ClaimsConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// ContextConfig points at a YAML clinical context loaded over the demo record.
type ContextConfig struct {
	File string `mapstructure:"file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from path, or from medassist.yaml in the working
// directory or ~/.config/medassist when path is empty. Env var overrides use
// prefix MEDASSIST_.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("provider.backend", BackendOpenAI)
	v.SetDefault("provider.timeout", 60*time.Second)
	v.SetDefault("provider.lang", "English")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("claims.delay", 1500*time.Millisecond)
	v.SetDefault("context.file", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "medassist"))
		}
		v.SetConfigName("medassist")
	}

	v.SetEnvPrefix("MEDASSIST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Provider.Backend {
	case BackendOpenAI, BackendGemini:
	default:
		return fmt.Errorf("unsupported provider backend %q", c.Provider.Backend)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider timeout must not be negative")
	}
	if c.Claims.Delay < 0 {
		return fmt.Errorf("claims delay must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ResolvedAPIKey prefers the configured key and falls back to APIKeyEnv.
func (c OpenAIConfig) ResolvedAPIKey() string {
	return resolveKey(c.APIKey, c.APIKeyEnv)
}

func (c GeminiConfig) ResolvedAPIKey() string {
	return resolveKey(c.APIKey, c.APIKeyEnv)
}

func resolveKey(key, env string) string {
	if key != "" || env == "" {
		return key
	}
	return os.Getenv(env)
}

func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return level, nil
}
