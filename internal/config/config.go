package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/housing-eda/internal/dataset"
	"github.com/KaramelBytes/housing-eda/internal/utils"
)

const dirName = ".housing-eda"

// Global configuration structure.
type Global struct {
	DatasetURL string `mapstructure:"dataset_url" yaml:"dataset_url"`
	CacheDir   string `mapstructure:"cache_dir" yaml:"cache_dir"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`

	// Charts
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	// Tests
	Alpha            float64 `mapstructure:"alpha" yaml:"alpha"`
	EqualVar         bool    `mapstructure:"equal_var" yaml:"equal_var"`
	LenientAge       bool    `mapstructure:"lenient_age" yaml:"lenient_age"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
}

// Dir returns ~/.housing-eda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.housing-eda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("HOUSING_EDA")
	v.AutomaticEnv()

	v.SetDefault("dataset_url", dataset.DefaultURL)
	v.SetDefault("cache_dir", "")
	v.SetDefault("output_dir", "output")
	v.SetDefault("chart_format", "png")
	v.SetDefault("chart_width_in", 10.0)
	v.SetDefault("chart_height_in", 6.0)
	v.SetDefault("alpha", 0.05)
	v.SetDefault("equal_var", true)
	v.SetDefault("lenient_age", false)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("http_timeout_sec", 60)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.CacheDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.CacheDir = filepath.Join(dir, "cache")
	}
	cache, err := utils.ExpandHome(c.CacheDir)
	if err != nil {
		return nil, err
	}
	c.CacheDir = cache
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Global) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %v", c.Alpha)
	}
	switch c.ChartFormat {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("chart_format must be png, svg or pdf, got %q", c.ChartFormat)
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %vx%v", c.ChartWidthIn, c.ChartHeightIn)
	}
	if c.HTTPTimeoutSec <= 0 {
		return fmt.Errorf("http_timeout_sec must be positive, got %d", c.HTTPTimeoutSec)
	}
	return nil
}
