// Package config loads the process configuration: credentials, channel
// selection, storage locations and the scheduling override. Secrets may come
// from the file or from environment variables; the environment wins.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transport string         `yaml:"transport"` // "telegram" (default) or "discord"
	Telegram  TelegramConfig `yaml:"telegram,omitempty"`
	Discord   DiscordConfig  `yaml:"discord,omitempty"`
	LLM       LLMConfig      `yaml:"llm,omitempty"`

	Timezone         string `yaml:"timezone"`           // IANA name, default Europe/Helsinki
	ActiveHoursStart int    `yaml:"active_hours_start"` // inclusive, default 7
	ActiveHoursEnd   int    `yaml:"active_hours_end"`   // exclusive, default 23

	Theme     string `yaml:"theme"`      // theme name, default "default"
	ThemesDir string `yaml:"themes_dir"` // default "themes"
	DataDir   string `yaml:"data_dir"`   // default "data"
	ImagesDir string `yaml:"images_dir"` // empty disables the local provider

	StoreBackend  string `yaml:"store_backend"`   // "json" (default) or "sqlite"
	MaxPhotoBytes int64  `yaml:"max_photo_bytes"` // default 1900000

	Unsplash UnsplashConfig `yaml:"unsplash,omitempty"`
	Schedule ScheduleConfig `yaml:"schedule,omitempty"` // overrides the theme's schedule when mode is set

	SendTestOnStart bool `yaml:"send_test_on_start"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token,omitempty"`
	Channel  string `yaml:"channel"` // "@name" or numeric chat id
}

type DiscordConfig struct {
	BotToken  string `yaml:"bot_token,omitempty"`
	ChannelID string `yaml:"channel_id"`
}

type LLMConfig struct {
	Provider string        `yaml:"provider,omitempty"` // "openai" (default) or "anthropic"
	APIKey   string        `yaml:"api_key,omitempty"`
	BaseURL  string        `yaml:"base_url,omitempty"`
	Model    string        `yaml:"model,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

type UnsplashConfig struct {
	AccessKey     string `yaml:"access_key,omitempty"`
	Orientation   string `yaml:"orientation,omitempty"`
	ContentFilter string `yaml:"content_filter,omitempty"`
	Width         int    `yaml:"width,omitempty"`
	Quality       int    `yaml:"quality,omitempty"`
	DefaultQuery  string `yaml:"default_query,omitempty"`
	AppName       string `yaml:"app_name,omitempty"`
}

type ScheduleConfig struct {
	Mode   string `yaml:"mode,omitempty"` // hourly | daily | hours | off
	Time   string `yaml:"time,omitempty"`
	Hours  string `yaml:"hours,omitempty"`
	Minute int    `yaml:"minute,omitempty"`
}

// LoadFromPath reads the YAML config, fills defaults and applies the
// environment overrides for secrets. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Transport == "" {
		c.Transport = "telegram"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Helsinki"
	}
	if c.ActiveHoursStart == 0 && c.ActiveHoursEnd == 0 {
		c.ActiveHoursStart = 7
		c.ActiveHoursEnd = 23
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
	if c.ThemesDir == "" {
		c.ThemesDir = "themes"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = "json"
	}
	if c.MaxPhotoBytes <= 0 {
		c.MaxPhotoBytes = 1900000
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 60 * time.Second
	}
}

// applyEnv lets deployments keep secrets out of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Discord.BotToken = v
	}
	for _, key := range []string{"LLM_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			c.LLM.APIKey = v
			break
		}
	}
	if v := os.Getenv("UNSPLASH_ACCESS_KEY"); v != "" {
		c.Unsplash.AccessKey = v
	}
}

func (c *Config) validate() error {
	switch c.Transport {
	case "telegram", "discord":
	default:
		return fmt.Errorf("unknown transport %q (telegram|discord)", c.Transport)
	}
	switch c.StoreBackend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown store backend %q (json|sqlite)", c.StoreBackend)
	}
	if c.ActiveHoursStart < 0 || c.ActiveHoursStart > 23 || c.ActiveHoursEnd < 0 || c.ActiveHoursEnd > 24 {
		return fmt.Errorf("active hours %d..%d out of range", c.ActiveHoursStart, c.ActiveHoursEnd)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
