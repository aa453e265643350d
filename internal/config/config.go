package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	AppID   string `yaml:"app_id"`
	GuildID string `yaml:"guild_id"`
	Workers int    `yaml:"workers"` // event processing workers
}

// EconomyConfig names the guild objects the economy touches. Channel policy
// is explicit configuration, not ambient state: a message earns buffer only
// when its channel or parent category is listed here.
type EconomyConfig struct {
	BoosterRoleID      string   `yaml:"booster_role_id"`
	BotsChannelID      string   `yaml:"bots_channel_id"`
	EnabledChannelIDs  []string `yaml:"enabled_channel_ids"`
	EnabledCategoryIDs []string `yaml:"enabled_category_ids"`
	AdminRoleBlock     int      `yaml:"admin_role_block"`
}

type ModerationConfig struct {
	MutedRoleID       string `yaml:"muted_role_id"`
	StaffRoleID       string `yaml:"staff_role_id"`
	TrialModRoleID    string `yaml:"trial_mod_role_id"`
	TicketCategoryID  string `yaml:"ticket_category_id"`
	ArchiveCategoryID string `yaml:"archive_category_id"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Economy    EconomyConfig    `yaml:"economy"`
	Moderation ModerationConfig `yaml:"moderation"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Metrics    MetricsConfig    `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Economy.AdminRoleBlock <= 0 {
		cfg.Economy.AdminRoleBlock = 14
	}
	if cfg.Metrics.Port <= 0 {
		cfg.Metrics.Port = 9090
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// Dev runs swap in the noop guild adapter and never open a gateway
	// session, so the bot credentials are optional there.
	if !c.Runtime.Dev {
		if c.Bot.Token == "" {
			return errors.New("bot.token is required")
		}
		if c.Bot.GuildID == "" {
			return errors.New("bot.guild_id is required")
		}
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	return nil
}
