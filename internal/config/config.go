package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Database  DatabaseConfig  `koanf:"database"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Telegram  TelegramConfig  `koanf:"telegram"`
}

type AppConfig struct {
	Name string `koanf:"name"` // app name stamped on in-app notifications
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type SchedulerConfig struct {
	Enabled  bool `koanf:"enabled"`
	Interval int  `koanf:"interval"` // seconds between reminder scans
}

// SMTPConfig holds the outbound mail relay settings. An empty Sender or
// Password leaves the email channel unconfigured; sends are skipped with a
// warning instead of failing.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Sender   string `koanf:"sender"`
	Password string `koanf:"password"`
}

// TelegramConfig holds the chat relay settings. An empty BotToken leaves the
// chat channel unconfigured.
type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("NOTETRACKER_", ".", func(s string) string {
		return envKey(strings.TrimPrefix(s, "NOTETRACKER_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Common credentials get short env names too.
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		k.Set("telegram.bot_token", token)
	}
	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		k.Set("smtp.password", password)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Path = expandPath(cfg.Database.Path)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %d", c.Scheduler.Interval)
	}

	if c.SMTP.Sender != "" && c.SMTP.Host == "" {
		return fmt.Errorf("smtp host is required when a sender address is set")
	}

	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp port must be between 1 and 65535, got %d", c.SMTP.Port)
	}

	return nil
}

// envKey maps SMTP_HOST to "smtp.host" etc. Only the first underscore
// separates the section from the key, so TELEGRAM_BOT_TOKEN keeps its
// bot_token key intact.
func envKey(s string) string {
	s = strings.ToLower(s)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		return s[:i] + "." + s[i+1:]
	}
	return s
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
