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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Refdata  RefdataConfig  `yaml:"refdata" mapstructure:"refdata"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RefdataConfig points at the externally supplied jurisdiction tables.
// Coverage grows by editing these files, not by code changes.
type RefdataConfig struct {
	CourtsPath    string `yaml:"courts_path" mapstructure:"courts_path"`
	JudgesPath    string `yaml:"judges_path" mapstructure:"judges_path"`
	ReportersPath string `yaml:"reporters_path" mapstructure:"reporters_path"`
}

// ClassifyConfig holds the document classification thresholds. These are
// configuration, not constants: courts with different filing conventions
// are tuned here.
type ClassifyConfig struct {
	OpinionMinChars int      `yaml:"opinion_min_chars" mapstructure:"opinion_min_chars"`
	OrderMinChars   int      `yaml:"order_min_chars" mapstructure:"order_min_chars"`
	OrderMaxChars   int      `yaml:"order_max_chars" mapstructure:"order_max_chars"`
	DocketCaseTypes []string `yaml:"docket_case_types" mapstructure:"docket_case_types"`
	OrderCaseTypes  []string `yaml:"order_case_types" mapstructure:"order_case_types"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Workers         int     `yaml:"workers" mapstructure:"workers"`
	WritesPerSecond float64 `yaml:"writes_per_second" mapstructure:"writes_per_second"`
	WriteBurst      int     `yaml:"write_burst" mapstructure:"write_burst"`
	ConflictRetries int     `yaml:"conflict_retries" mapstructure:"conflict_retries"`
}

// ServerConfig configures the report API server.
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
	v.SetEnvPrefix("COURTPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "courtpipe.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("refdata.courts_path", "refdata/courts.yaml")
	v.SetDefault("refdata.judges_path", "refdata/judges.yaml")
	v.SetDefault("refdata.reporters_path", "refdata/reporters.yaml")
	v.SetDefault("classify.opinion_min_chars", 5000)
	v.SetDefault("classify.order_min_chars", 200)
	v.SetDefault("classify.order_max_chars", 5000)
	v.SetDefault("classify.docket_case_types", []string{"docket", "civil_cover_sheet", "civil cover sheet"})
	v.SetDefault("classify.order_case_types", []string{"order", "minute_order", "opinion_order"})
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.writes_per_second", 50)
	v.SetDefault("batch.write_burst", 10)
	v.SetDefault("batch.conflict_retries", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
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
