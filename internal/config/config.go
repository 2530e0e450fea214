package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AppName     = "telegram-wallapop-bot"
	EnvFileName = "config.env"
)

// Config holds all application configuration
type Config struct {
	Bot      BotConfig
	Wallapop WallapopConfig
	Watcher  WatcherConfig
	Metrics  MetricsConfig
}

// BotConfig holds Telegram bot configuration
type BotConfig struct {
	Token            string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath           string `envconfig:"DB_PATH" default:"wallbot.db"`
	LogDir           string `envconfig:"LOG_DIR" default:"."`
	MaxSubscriptions int    `envconfig:"MAX_SUBSCRIPTIONS_PER_CHAT" default:"20"`
}

// WallapopConfig holds marketplace client configuration
type WallapopConfig struct {
	BaseURL    string        `envconfig:"WALLAPOP_BASE_URL" default:"https://api.wallapop.com"`
	WebURL     string        `envconfig:"WALLAPOP_WEB_URL" default:"https://es.wallapop.com"`
	RateLimit  float64       `envconfig:"WALLAPOP_RATE_LIMIT" default:"2"`
	Timeout    time.Duration `envconfig:"WALLAPOP_TIMEOUT" default:"30s"`
	SellerInfo bool          `envconfig:"SELLER_REVIEWS" default:"true"`
}

// WatcherConfig holds polling and notification formatting configuration
type WatcherConfig struct {
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"5m"`
	Locale         string        `envconfig:"LOCALE" default:"es-ES"`
	CurrencySymbol string        `envconfig:"CURRENCY_SYMBOL" default:"€"`
}

// MetricsConfig holds the metrics HTTP server configuration. An empty address
// disables the server.
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"`
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.Bot); err != nil {
		return nil, fmt.Errorf("failed to load bot config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Wallapop); err != nil {
		return nil, fmt.Errorf("failed to load wallapop config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Watcher); err != nil {
		return nil, fmt.Errorf("failed to load watcher config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Metrics); err != nil {
		return nil, fmt.Errorf("failed to load metrics config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Bot.MaxSubscriptions <= 0 {
		return fmt.Errorf("MAX_SUBSCRIPTIONS_PER_CHAT must be positive")
	}
	if c.Wallapop.RateLimit < 0 {
		return fmt.Errorf("WALLAPOP_RATE_LIMIT must not be negative")
	}
	if c.Wallapop.Timeout <= 0 {
		return fmt.Errorf("WALLAPOP_TIMEOUT must be positive")
	}
	if c.Watcher.PollInterval < time.Minute {
		return fmt.Errorf("POLL_INTERVAL must be at least 1m")
	}
	return nil
}
