package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "WELLNESS"

// Config is the process configuration read from configs/config.yml and WELLNESS_* variables.
type Config struct {
	Port string     `mapstructure:"port"`
	DB   DBConfig   `mapstructure:"db"`
	Log  LogConfig  `mapstructure:"log"`
	Auth AuthConfig `mapstructure:"auth"`
	// Templates is the path of the starter exercise catalog.
	Templates string        `mapstructure:"templates"`
	Timer     TimerConfig   `mapstructure:"timer"`
	History   HistoryConfig `mapstructure:"history"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty disables file output
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type TimerConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type HistoryConfig struct {
	Buffer int `mapstructure:"buffer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "wellness.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("templates", "configs/templates.yml")
	v.SetDefault("timer.tick", time.Second)
	v.SetDefault("history.buffer", 64)
}

// Load reads the config file (if any) from the given paths and applies env overrides.
// A missing file is not an error; defaults apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Timer.Tick <= 0 {
		return fmt.Errorf("timer.tick must be positive, got %s", c.Timer.Tick)
	}
	if c.History.Buffer < 1 {
		return fmt.Errorf("history.buffer must be at least 1, got %d", c.History.Buffer)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
