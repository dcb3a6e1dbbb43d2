package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/loghound-systems/loghound-stack/common/tfidf"
	"github.com/loghound-systems/loghound-stack/ml/internal/svm"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Models  ModelsConfig  `mapstructure:"models"`
	TFIDF   tfidf.Config  `mapstructure:"tfidf"`
	OCSVM   svm.Config    `mapstructure:"ocsvm"`
	NATS    NATSConfig    `mapstructure:"nats"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type ModelsConfig struct {
	Dir        string `mapstructure:"dir"`
	TextName   string `mapstructure:"text_name"`
	VectorName string `mapstructure:"vector_name"`
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
	v.SetDefault("server.port", 8003)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("models.dir", "./models")
	v.SetDefault("models.text_name", "ocsvm_text")
	v.SetDefault("models.vector_name", "ocsvm_raw_vectors")
	v.SetDefault("tfidf.max_features", 5000)
	v.SetDefault("tfidf.ngram_min", 1)
	v.SetDefault("tfidf.ngram_max", 1)
	v.SetDefault("tfidf.min_df", 1)
	v.SetDefault("tfidf.max_df", 1.0)
	v.SetDefault("ocsvm.kernel", "rbf")
	v.SetDefault("ocsvm.gamma", "scale")
	v.SetDefault("ocsvm.nu", 0.05)
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
		v.AddConfigPath("/etc/loghound/ml")
	}

	// Environment variables override (ML_SERVER_PORT, etc.)
	v.SetEnvPrefix("ML")
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

	return &cfg, nil
}
