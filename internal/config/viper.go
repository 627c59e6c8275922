// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/bilanci/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Ingest struct {
		MaxFileSizeMB int `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
	} `mapstructure:"ingest" yaml:"ingest"`

	PDF struct {
		LineTolerance float64 `mapstructure:"line_tolerance" yaml:"line_tolerance"`
	} `mapstructure:"pdf" yaml:"pdf"`

	Invoice struct {
		MinConfidence int `mapstructure:"min_confidence" yaml:"min_confidence"`
	} `mapstructure:"invoice" yaml:"invoice"`

	Keywords struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"keywords" yaml:"keywords"`

	History struct {
		// Seed 0 means time-seeded.
		Seed uint64 `mapstructure:"seed" yaml:"seed"`
	} `mapstructure:"history" yaml:"history"`

	Batch struct {
		// Workers 0 means one per CPU.
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"data" yaml:"data"`

	Server struct {
		Port int `mapstructure:"port" yaml:"port"`
	} `mapstructure:"server" yaml:"server"`
}

// MaxFileSizeBytes returns the ingest size guard in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Ingest.MaxFileSizeMB) << 20
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bilanci")
	v.AddConfigPath(".bilanci")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("BILANCI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// LOG_LEVEL predates the prefixed variable and is still honoured.
	if err := v.BindEnv("log.level", "BILANCI_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level environment variable: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration obtained from defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("ingest.max_file_size_mb", 10)
	v.SetDefault("pdf.line_tolerance", 3.0)
	v.SetDefault("invoice.min_confidence", 2)
	v.SetDefault("keywords.file", "")
	v.SetDefault("history.seed", 0)
	v.SetDefault("batch.workers", 0)

	v.SetDefault("data.directory", "")
	v.SetDefault("server.port", 3000)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Ingest.MaxFileSizeMB <= 0 {
		return fmt.Errorf("ingest.max_file_size_mb must be positive, got: %d", config.Ingest.MaxFileSizeMB)
	}

	if config.PDF.LineTolerance <= 0 {
		return fmt.Errorf("pdf.line_tolerance must be positive, got: %f", config.PDF.LineTolerance)
	}

	if config.Invoice.MinConfidence < 1 {
		return fmt.Errorf("invoice.min_confidence must be at least 1, got: %d", config.Invoice.MinConfidence)
	}

	if config.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got: %d", config.Batch.Workers)
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", config.Server.Port)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
