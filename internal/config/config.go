// Package config loads the application configuration and initializes the
// global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourcesConfig locates the three raw inputs. CSV by default; a .xlsx
// extension switches to workbook ingestion.
type SourcesConfig struct {
	CRMPath         string `yaml:"crm_path" mapstructure:"crm_path"`
	EcommercePath   string `yaml:"ecommerce_path" mapstructure:"ecommerce_path"`
	WebsiteLogsPath string `yaml:"website_logs_path" mapstructure:"website_logs_path"`
}

// OutputConfig locates the final Customer 360 CSV.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PipelineConfig holds the integration and segmentation knobs.
type PipelineConfig struct {
	// FuzzyMatchThreshold is reserved for approximate identity matching
	// (name+phone similarity when email is absent). No matching logic
	// consults it yet.
	FuzzyMatchThreshold float64 `yaml:"fuzzy_match_threshold" mapstructure:"fuzzy_match_threshold"`
	MinOrderValueForVIP float64 `yaml:"min_order_value_for_vip" mapstructure:"min_order_value_for_vip"`
	DefaultRegion       string  `yaml:"default_region" mapstructure:"default_region"`
	ClusterCount        int     `yaml:"cluster_count" mapstructure:"cluster_count"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("C360")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.crm_path", "data/crm_data.csv")
	v.SetDefault("sources.ecommerce_path", "data/ecommerce_data.csv")
	v.SetDefault("sources.website_logs_path", "data/website_logs.csv")
	v.SetDefault("output.path", "customer_360_final.csv")
	v.SetDefault("pipeline.fuzzy_match_threshold", 85)
	v.SetDefault("pipeline.min_order_value_for_vip", 100)
	v.SetDefault("pipeline.default_region", "US")
	v.SetDefault("pipeline.cluster_count", 3)
	v.SetDefault("store.path", "customer360.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	if c.Pipeline.FuzzyMatchThreshold < 0 || c.Pipeline.FuzzyMatchThreshold > 100 {
		return eris.Errorf("config: fuzzy_match_threshold %.1f outside [0, 100]", c.Pipeline.FuzzyMatchThreshold)
	}
	if c.Pipeline.ClusterCount < 1 {
		return eris.Errorf("config: cluster_count %d must be at least 1", c.Pipeline.ClusterCount)
	}
	if c.Pipeline.DefaultRegion == "" {
		return eris.New("config: default_region is required")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
