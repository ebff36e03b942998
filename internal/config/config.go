// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	AdminID  int64  `yaml:"admin_id"`
	Workers  int    `yaml:"workers"` // polling workers
	PageSize int    `yaml:"page_size"`
	LogoPath string `yaml:"logo_path"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type WebConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type PaymentConfig struct {
	SubscribeURL string `yaml:"subscribe_url"`
	MembersURL   string `yaml:"members_url"`
	SupportURL   string `yaml:"support_url"`
}

type Config struct {
	Bot            BotConfig     `yaml:"bot"`
	Log            LogConfig     `yaml:"log"`
	Storage        StorageConfig `yaml:"storage"`
	Web            WebConfig     `yaml:"web"`
	Payment        PaymentConfig `yaml:"payment"`
	RestartBackoff time.Duration `yaml:"restart_backoff"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML config, applies environment overrides for the
// secrets (TELEGRAM_BOT_TOKEN, ADMIN_CHAT_ID, WEB_API_KEY) and fills
// defaults. A missing config file is fine when the environment provides the
// required values.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only setup
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse ADMIN_CHAT_ID: %w", err)
		}
		cfg.Bot.AdminID = id
	}
	if v := os.Getenv("WEB_API_KEY"); v != "" {
		cfg.Web.APIKey = v
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Bot.PageSize <= 0 {
		cfg.Bot.PageSize = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "subscriptions.json"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8081
	}
	if cfg.Payment.SubscribeURL == "" {
		cfg.Payment.SubscribeURL = "https://prbot247.com/subscribe-now/#link"
	}
	if cfg.Payment.MembersURL == "" {
		cfg.Payment.MembersURL = "https://prbot247.com/subscription-members/"
	}
	if cfg.Payment.SupportURL == "" {
		cfg.Payment.SupportURL = "https://prbot247.com/support"
	}
	if cfg.RestartBackoff <= 0 {
		cfg.RestartBackoff = 5 * time.Second
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Bot.AdminID == 0 {
		return nil, errors.New("bot.admin_id is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
