package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey             string        `mapstructure:"gnews_api_key"`
	BaseURL            string        `mapstructure:"gnews_base_url"`
	Language           string        `mapstructure:"language"`
	PageSize           int           `mapstructure:"page_size"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	StorageType    string `mapstructure:"storage_type"`
	BookmarksPath  string `mapstructure:"bookmarks_path"`
	CategoriesFile string `mapstructure:"categories_file"`
	EnrichArticles bool   `mapstructure:"enrich_articles"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("gnews_api_key", "")
	v.SetDefault("gnews_base_url", "https://gnews.io/api/v4")
	v.SetDefault("language", "en")
	v.SetDefault("page_size", 10)
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bookmarks_path", "./data/bookmarks.db")
	v.SetDefault("categories_file", "")
	v.SetDefault("enrich_articles", false)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("gnews_base_url must not be empty")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid page_size (must be positive)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "en"
	}

	return &cfg, nil
}
