// Package config loads runtime settings from defaults, an optional TOML file
// and IMGBUF_* environment variables, in increasing order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = "imgbuf.toml"

// Config is the full set of settings.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Parallel ParallelConfig `mapstructure:"parallel"`
	Output   OutputConfig   `mapstructure:"output"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ParallelConfig tunes the pixel-map dispatcher.
type ParallelConfig struct {
	MinPixels int `mapstructure:"min_pixels"`
}

// OutputConfig selects the encoding of images returned by the tool server.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// ServerConfig bounds the tool server's request handling.
type ServerConfig struct {
	MaxRequestBytes int `mapstructure:"max_request_bytes"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("parallel.min_pixels", 4096)
	v.SetDefault("output.format", "png")
	v.SetDefault("server.max_request_bytes", 1<<20)
}

// NewViper returns a viper instance with defaults and environment binding in
// place. If path is empty, DefaultFileName is read when it exists.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("IMGBUF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err != nil {
			return v, nil
		}
		path = DefaultFileName
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return v, nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewViper followed by FromViper.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Validate rejects settings the rest of the program cannot honour.
func (c *Config) Validate() error {
	if c.Parallel.MinPixels < 0 {
		return errors.Newf("parallel.min_pixels must be >= 0, got %d", c.Parallel.MinPixels)
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "jpeg", "jpg", "bmp", "gif", "tiff":
	default:
		return errors.Newf("output.format %q is not a supported encoding", c.Output.Format)
	}
	if c.Server.MaxRequestBytes <= 0 {
		return errors.Newf("server.max_request_bytes must be positive, got %d", c.Server.MaxRequestBytes)
	}
	return nil
}
