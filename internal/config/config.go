package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dataset cleaner
	RawPath          string  `mapstructure:"raw_path" yaml:"raw_path"`
	OutPath          string  `mapstructure:"out_path" yaml:"out_path"`
	FallbackDataset  string  `mapstructure:"fallback_dataset" yaml:"fallback_dataset"`
	DataHome         string  `mapstructure:"data_home" yaml:"data_home"`
	DatasetBaseURL   string  `mapstructure:"dataset_base_url" yaml:"dataset_base_url"`
	DownloadFallback bool    `mapstructure:"download_fallback" yaml:"download_fallback"`
	IQRK             float64 `mapstructure:"iqr_k" yaml:"iqr_k"`

	// Scoring
	ModelPath     string  `mapstructure:"model_path" yaml:"model_path"`
	PredictOutput string  `mapstructure:"predict_output" yaml:"predict_output"`
	Threshold     float64 `mapstructure:"threshold" yaml:"threshold"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" yaml:"log_json"`

	// HTTP/Retry configuration for the fallback download
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".titanic"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.titanic/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TITANIC")
	v.AutomaticEnv()

	v.SetDefault("raw_path", "data/raw/titanic.csv")
	v.SetDefault("out_path", "data/processed/titanic_clean.csv")
	v.SetDefault("fallback_dataset", "titanic")
	v.SetDefault("data_home", "")
	v.SetDefault("dataset_base_url", "https://raw.githubusercontent.com/mwaskom/seaborn-data/master")
	v.SetDefault("download_fallback", true)
	v.SetDefault("iqr_k", 3.0)
	v.SetDefault("model_path", "../models/best_pipeline.json")
	v.SetDefault("predict_output", "../data/processed/predictions.csv")
	v.SetDefault("threshold", 0.5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("retry_max_attempts", 3)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve data_home default: ~/.titanic/data
	if c.DataHome == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.DataHome = filepath.Join(dir, "data")
	}
	return &c, nil
}
