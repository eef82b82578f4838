// Package config loads settings for both binaries from configs/config.yml,
// environment variables and built-in defaults, in that order of precedence
// (env wins).
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers for the feed user store.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Storage struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	RedisAddr  string `mapstructure:"redis_addr"`
}

type Security struct {
	Hardened bool `mapstructure:"hardened"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Feed configures the feed-app process.
type Feed struct {
	Host       string   `mapstructure:"host"`
	Port       string   `mapstructure:"port"`
	SecretKey  string   `mapstructure:"secret_key"`
	ExploitURL string   `mapstructure:"exploit_url"`
	LogLevel   string   `mapstructure:"log_level"`
	Storage    Storage  `mapstructure:"storage"`
	Security   Security `mapstructure:"security"`
	CORS       CORS     `mapstructure:"cors"`
}

// Malicious configures the malicious-app process.
type Malicious struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	TargetURL string `mapstructure:"target_url"`
	LogLevel  string `mapstructure:"log_level"`
}

type Config struct {
	Feed      Feed      `mapstructure:"feed"`
	Malicious Malicious `mapstructure:"malicious"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feed.host", "127.0.0.1")
	v.SetDefault("feed.port", "5000")
	v.SetDefault("feed.secret_key", "super-secret-key-123")
	v.SetDefault("feed.exploit_url", "http://127.0.0.1:5001/malicious")
	v.SetDefault("feed.log_level", "debug")
	v.SetDefault("feed.storage.driver", DriverMemory)
	v.SetDefault("feed.storage.sqlite_path", "feed.db")
	v.SetDefault("feed.storage.redis_addr", "localhost:6379")
	v.SetDefault("feed.security.hardened", false)
	v.SetDefault("feed.cors.allowed_origins", []string{"http://127.0.0.1:5001", "http://localhost:5001"})

	v.SetDefault("malicious.host", "127.0.0.1")
	v.SetDefault("malicious.port", "5001")
	v.SetDefault("malicious.target_url", "http://127.0.0.1:5000/delete-account")
	v.SetDefault("malicious.log_level", "debug")
}

// New returns a viper instance with defaults, search path and env binding set.
// Env keys use the full dotted path, e.g. FEED_STORAGE_DRIVER.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath("configs")
	v.SetConfigName("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if present and decodes everything into Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
