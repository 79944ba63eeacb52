// Package config provides configuration management for nixdeck using Viper.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// Defaults for optional settings.
const (
	DefaultArchiver    = "tar"
	DefaultToolTimeout = 2 * time.Minute
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version" toml:"version" json:"version"`

	// RootDir holds snapshots/, containers/, loadouts/ and themes/.
	// Empty means ~/.nixdeck.
	RootDir string `mapstructure:"root_dir" yaml:"root_dir" toml:"root_dir" json:"root_dir"`

	// ComponentDir is where live component configuration lives.
	// Empty means the XDG config home.
	ComponentDir string `mapstructure:"component_dir" yaml:"component_dir" toml:"component_dir" json:"component_dir"`

	// Archiver is the tool used by container export.
	Archiver string `mapstructure:"archiver" yaml:"archiver" toml:"archiver" json:"archiver"`

	// ToolTimeout bounds every external tool invocation.
	ToolTimeout time.Duration `mapstructure:"tool_timeout" yaml:"tool_timeout" toml:"tool_timeout" json:"tool_timeout"`
}

// Default returns a configuration with default values and unresolved roots.
func Default() *Config {
	return &Config{
		Version:     1,
		Archiver:    DefaultArchiver,
		ToolTimeout: DefaultToolTimeout,
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Any previous Viper state is discarded.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	if dir := os.Getenv("NIXDECK_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigFileDir())

	viper.SetEnvPrefix("NIXDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault("version", def.Version)
	viper.SetDefault("root_dir", "")
	viper.SetDefault("component_dir", "")
	viper.SetDefault("archiver", def.Archiver)
	viper.SetDefault("tool_timeout", def.ToolTimeout)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		switch {
		case notFound && path == "":
			// Implicit load without a file: defaults apply
		case notFound || os.IsNotExist(err):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return &cfg, nil
}

// Resolve fills in the root directories, expanding a leading ~.
// It fails with paths.ErrHomeDirNotFound when a default needs a home
// directory that cannot be determined.
func (c *Config) Resolve() error {
	var err error

	if c.RootDir == "" {
		if c.RootDir, err = paths.DefaultRootDir(); err != nil {
			return errors.Wrap(err, "resolving root_dir")
		}
	} else if c.RootDir, err = paths.ExpandHome(c.RootDir); err != nil {
		return errors.Wrap(err, "expanding root_dir")
	}

	if c.ComponentDir == "" {
		if c.ComponentDir, err = paths.DefaultComponentRoot(); err != nil {
			return errors.Wrap(err, "resolving component_dir")
		}
	} else if c.ComponentDir, err = paths.ExpandHome(c.ComponentDir); err != nil {
		return errors.Wrap(err, "expanding component_dir")
	}

	if c.Archiver == "" {
		c.Archiver = DefaultArchiver
	}
	if c.ToolTimeout == 0 {
		c.ToolTimeout = DefaultToolTimeout
	}

	return nil
}
