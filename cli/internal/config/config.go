package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Defaults *Defaults `yaml:"defaults"`
	path     string
}

// Defaults holds the service endpoints and batch sizing the commands
// fall back to when no flag is given.
type Defaults struct {
	CollectorURL string `yaml:"collector_url"`
	MinerURL     string `yaml:"miner_url"`
	MLURL        string `yaml:"ml_url"`
	StorageURL   string `yaml:"storage_url"`
	BatchSize    int    `yaml:"batch_size"`
	ReportDir    string `yaml:"report_dir"`
}

func Default() *Config {
	return &Config{
		Defaults: &Defaults{
			CollectorURL: "http://localhost:8001",
			StorageURL:   "http://localhost:8002",
			MLURL:        "http://localhost:8003",
			MinerURL:     "http://localhost:8004",
			BatchSize:    1000,
			ReportDir:    "./reports",
		},
	}
}

func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfgFile = filepath.Join(home, ".loghound", "config.yaml")
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Defaults == nil {
		cfg.Defaults = Default().Defaults
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets LHOUND_* variables override file values, which keeps
// docker-compose setups free of per-user config files.
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"LHOUND_COLLECTOR_URL": &c.Defaults.CollectorURL,
		"LHOUND_STORAGE_URL":   &c.Defaults.StorageURL,
		"LHOUND_ML_URL":        &c.Defaults.MLURL,
		"LHOUND_MINER_URL":     &c.Defaults.MinerURL,
		"LHOUND_REPORT_DIR":    &c.Defaults.ReportDir,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}

func (c *Config) Save() error {
	if c.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(home, ".loghound", "config.yaml")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}
