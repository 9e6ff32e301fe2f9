// Package config loads application configuration from file and
// environment and initializes the global logger.
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
	Shapefile ShapefileConfig `mapstructure:"shapefile"`
	Relations RelationsConfig `mapstructure:"relations"`
	Wiki      WikiConfig      `mapstructure:"wiki"`
	Store     StoreConfig     `mapstructure:"store"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// ShapefileConfig locates the suburb boundary shapefile.
type ShapefileConfig struct {
	Path      string `mapstructure:"path"`
	NameField string `mapstructure:"name_field"`
}

// RelationsConfig configures pairwise relation generation and output.
type RelationsConfig struct {
	DataDir          string `mapstructure:"data_dir"`
	Partitions       int    `mapstructure:"partitions"`
	WriteConcurrency int    `mapstructure:"write_concurrency"`
}

// WikiConfig locates the wiki reference inputs and comparison outputs.
type WikiConfig struct {
	Dataset    string `mapstructure:"dataset"`
	NameMatch  string `mapstructure:"name_match"`
	Output     string `mapstructure:"output"`
	XLSXOutput string `mapstructure:"xlsx_output"`
}

// StoreConfig configures the local run database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("shapefile.path", "SAL_2021_AUST_GDA2020_SHP/SAL_2021_AUST_GDA2020.shp")
	v.SetDefault("shapefile.name_field", "SAL_NAME21")
	v.SetDefault("relations.data_dir", "data")
	v.SetDefault("relations.partitions", 20)
	v.SetDefault("relations.write_concurrency", 4)
	v.SetDefault("wiki.dataset", "data/df_wiki_extend.csv")
	v.SetDefault("wiki.name_match", "data/match_extend.csv")
	v.SetDefault("wiki.output", "data/australia_suburb_directional_relations_wiki_vs_calculated.csv")
	v.SetDefault("store.path", "compass.db")
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
