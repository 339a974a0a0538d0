package config

import (
	"fmt"
	"path/filepath"
	"time"

	internal "github.com/longlodw/news/news"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Chat    ChatConfig    `mapstructure:"chat"`
	News    NewsConfig    `mapstructure:"news"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// StorageConfig stores storage layout details.
type StorageConfig struct {
	// DataDir is the base directory holding the global credential
	// database and one subdirectory per tenant partition.
	DataDir string `mapstructure:"data_dir"`
}

// ChatConfig stores conversation assembly configurations.
type ChatConfig struct {
	WindowSize int `mapstructure:"window_size"` // turns loaded per generation call
}

// NewsConfig stores the interest & news pipeline configurations.
type NewsConfig struct {
	Endpoint        string `mapstructure:"endpoint"`         // news API base URL
	APIKey          string `mapstructure:"api_key"`          // news API key
	Language        string `mapstructure:"language"`         // article language filter
	DefaultInterest string `mapstructure:"default_interest"` // used when history is empty
}

// GeminiConfig stores generative backend configurations.
type GeminiConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // materialized context lifetime
}

// TracingConfig stores observability configurations.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("storage.data_dir", internal.DefaultDataDir)

	viper.SetDefault("chat.window_size", 16)

	viper.SetDefault("news.endpoint", "https://newsdata.io/api/1/latest")
	viper.SetDefault("news.language", "en")
	viper.SetDefault("news.default_interest", "finance")

	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.cache_ttl", "1h")

	viper.SetDefault("tracing.enabled", true)

	viper.SetEnvPrefix(internal.DefaultAppName)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Chat.WindowSize < 1 {
		return nil, fmt.Errorf("chat.window_size must be positive: %d", cfg.Chat.WindowSize)
	}

	return &cfg, nil
}
