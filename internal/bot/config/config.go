package config

import (
	"forex-signal-relay/pkg/config"
)

// Telegram holds the bot transport configuration. The channel is addressed
// by numeric chat id when channel_id is set, otherwise by @username.
type Telegram struct {
	BotToken        string  `mapstructure:"bot_token"`
	ChannelID       int64   `mapstructure:"channel_id"`
	ChannelUsername string  `mapstructure:"channel_username"`
	InitialOwnerIDs []int64 `mapstructure:"initial_owner_ids"`
}

// Storage selects the document persistence backend.
type Storage struct {
	Driver   string `mapstructure:"driver"` // "file" or "redis"
	FilePath string `mapstructure:"file_path"`
	RedisKey string `mapstructure:"redis_key"`
}

// Bot holds signal lifecycle configuration.
type Bot struct {
	// ClosingPolicy decides which status updates remove a signal from the
	// live store: "single_shot" (entry hit, stop loss, and the final
	// take-profit close) or "any_hit" (every status closes).
	ClosingPolicy string `mapstructure:"closing_policy"`
	Timezone      string `mapstructure:"timezone"`
}

// Journal holds daily report and archive configuration.
type Journal struct {
	CronSpec       string `mapstructure:"cron_spec"`
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
}

// Config holds the full configuration for the bot service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Telegram Telegram        `mapstructure:"telegram"`
	Storage  Storage         `mapstructure:"storage"`
	Bot      Bot             `mapstructure:"bot"`
	Journal  Journal         `mapstructure:"journal"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
}

// Load loads the bot configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Bot.ClosingPolicy == "" {
		cfg.Bot.ClosingPolicy = "single_shot"
	}
	if cfg.Bot.Timezone == "" {
		cfg.Bot.Timezone = "Asia/Jakarta"
	}
	if cfg.Journal.CronSpec == "" {
		cfg.Journal.CronSpec = "11 23 * * *"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = "data.json"
	}
	if cfg.Storage.RedisKey == "" {
		cfg.Storage.RedisKey = "signal-relay:document"
	}
	return &cfg, nil
}
