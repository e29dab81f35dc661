// Package config loads application configuration from config.yaml and the
// environment, and installs the global zap logger.
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
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Attribution AttributionConfig `yaml:"attribution" mapstructure:"attribution"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// PipelineConfig configures the geometric pipeline.
type PipelineConfig struct {
	AssociationRadiusM float64 `yaml:"association_radius_m" mapstructure:"association_radius_m"`
	ClusterLinkDistM   float64 `yaml:"cluster_link_dist_m" mapstructure:"cluster_link_dist_m"`
	RulesPath          string  `yaml:"rules_path" mapstructure:"rules_path"`
}

// AttributionConfig configures the point-in-polygon index.
type AttributionConfig struct {
	BoundariesDir string `yaml:"boundaries_dir" mapstructure:"boundaries_dir"`
	CellLevel     int    `yaml:"cell_level" mapstructure:"cell_level"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
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
	v.SetEnvPrefix("RESORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("pipeline.association_radius_m", 2000.0)
	v.SetDefault("pipeline.cluster_link_dist_m", 50000.0)
	v.SetDefault("attribution.boundaries_dir", "boundaries")
	v.SetDefault("attribution.cell_level", 7)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "resort-cli.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger builds a zap logger from LogConfig and installs it globally.
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
