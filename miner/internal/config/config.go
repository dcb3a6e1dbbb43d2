package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/loghound-systems/loghound-stack/common/tfidf"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Output  OutputConfig  `mapstructure:"output"`
	TFIDF   tfidf.Config  `mapstructure:"tfidf"`
	NATS    NATSConfig    `mapstructure:"nats"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatasetConfig struct {
	Path      string `mapstructure:"path"`
	BatchSize int    `mapstructure:"batch_size"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8004)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("dataset.path", "./data/BGL.log")
	v.SetDefault("dataset.batch_size", 1000)
	v.SetDefault("output.dir", "./out")
	v.SetDefault("tfidf.max_features", 5000)
	v.SetDefault("tfidf.ngram_min", 1)
	v.SetDefault("tfidf.ngram_max", 1)
	v.SetDefault("tfidf.min_df", 1)
	v.SetDefault("tfidf.max_df", 1.0)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/loghound/miner")
	}

	// Environment variables override (MINER_SERVER_PORT, etc.)
	v.SetEnvPrefix("MINER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Dataset.BatchSize <= 0 {
		return nil, fmt.Errorf("dataset.batch_size must be positive, got %d", cfg.Dataset.BatchSize)
	}

	return &cfg, nil
}
