package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"imageCompressor/compressor/models"
)

const envPrefix = "COMPRESSOR"

// TransformKeys are the config keys a preset fills in.
var TransformKeys = []string{"max_width", "max_height", "quality", "format"}

type Config struct {
	Preset      string        `mapstructure:"preset"`
	MaxWidth    int           `mapstructure:"max_width"`
	MaxHeight   int           `mapstructure:"max_height"`
	Quality     float64       `mapstructure:"quality"`
	Format      string        `mapstructure:"format"`
	OutputDir   string        `mapstructure:"output_dir"`
	Archive     bool          `mapstructure:"archive"`
	LoadWorkers int           `mapstructure:"load_workers"`
	LogLevel    string        `mapstructure:"log_level"`
	Preview     PreviewConfig `mapstructure:"preview"`

	// transform keys given explicitly; they win over the preset
	overrides map[string]bool
}

type PreviewConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

func DefaultConfig() *Config {
	website, _ := LookupPreset(PresetDefault)
	return &Config{
		Preset:      PresetDefault,
		MaxWidth:    website.Config.MaxWidth,
		MaxHeight:   website.Config.MaxHeight,
		Quality:     website.Config.Quality,
		Format:      website.Config.Format.String(),
		OutputDir:   "compressed",
		Archive:     false,
		LoadWorkers: 4,
		LogLevel:    "info",
		Preview: PreviewConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
			TTL:       10 * time.Minute,
		},
	}
}

// NewViper returns a viper instance seeded with the defaults, a
// compressor.yaml search path and COMPRESSOR_* environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("preset", d.Preset)
	v.SetDefault("max_width", d.MaxWidth)
	v.SetDefault("max_height", d.MaxHeight)
	v.SetDefault("quality", d.Quality)
	v.SetDefault("format", d.Format)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("archive", d.Archive)
	v.SetDefault("load_workers", d.LoadWorkers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("preview.backend", d.Preview.Backend)
	v.SetDefault("preview.redis_addr", d.Preview.RedisAddr)
	v.SetDefault("preview.ttl", d.Preview.TTL)

	v.SetConfigName("compressor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "compressor"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and decodes v into a Config.
// Transform keys present in the file or the environment are recorded as
// overrides.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	for _, key := range TransformKeys {
		if v.InConfig(key) || envSet(key) {
			cfg.Override(key)
		}
	}
	return cfg, nil
}

// Override marks transform keys as explicitly set so Transform keeps
// them on top of a named preset.
func (c *Config) Override(keys ...string) {
	if c.overrides == nil {
		c.overrides = make(map[string]bool, len(keys))
	}
	for _, key := range keys {
		c.overrides[key] = true
	}
}

// Transform resolves the batch configuration. A named preset fills the
// fields first and any overridden field is applied on top; "custom" uses
// the fields as given.
func (c *Config) Transform() (models.TransformConfig, error) {
	var tc models.TransformConfig

	named := c.Preset != "" && !strings.EqualFold(c.Preset, PresetCustom)
	if named {
		p, err := LookupPreset(c.Preset)
		if err != nil {
			return models.TransformConfig{}, err
		}
		tc = p.Config
	}
	use := func(key string) bool { return !named || c.overrides[key] }

	if use("max_width") {
		tc.MaxWidth = c.MaxWidth
	}
	if use("max_height") {
		tc.MaxHeight = c.MaxHeight
	}
	if use("quality") {
		tc.Quality = c.Quality
	}
	if use("format") {
		format, err := models.ParseFormat(c.Format)
		if err != nil {
			return models.TransformConfig{}, fmt.Errorf("%w: %w", models.ErrInvalidConfig, err)
		}
		tc.Format = format
	}

	if err := tc.Validate(); err != nil {
		return models.TransformConfig{}, err
	}
	return tc, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(key))
	return ok
}
