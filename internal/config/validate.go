package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrInvalidPath        = errors.New("invalid path")
	ErrInvalidTimeout     = errors.New("tool_timeout must not be negative")
	ErrInvalidArchiver    = errors.New("archiver must be a single executable name or path")
)

// FieldError ties a validation failure to the config key that caused it.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

type fieldRule struct {
	field string
	check func(*Config) error
	value func(*Config) any
}

var rules = []fieldRule{
	{
		field: "version",
		check: func(c *Config) error {
			if c.Version != 1 {
				return errors.Wrapf(ErrUnsupportedVersion, "got %d", c.Version)
			}
			return nil
		},
		value: func(c *Config) any { return c.Version },
	},
	{
		field: "root_dir",
		check: func(c *Config) error { return checkPath(c.RootDir) },
		value: func(c *Config) any { return c.RootDir },
	},
	{
		field: "component_dir",
		check: func(c *Config) error { return checkPath(c.ComponentDir) },
		value: func(c *Config) any { return c.ComponentDir },
	},
	{
		field: "archiver",
		check: func(c *Config) error {
			if strings.ContainsAny(c.Archiver, " \t\n") {
				return ErrInvalidArchiver
			}
			return nil
		},
		value: func(c *Config) any { return c.Archiver },
	},
	{
		field: "tool_timeout",
		check: func(c *Config) error {
			if c.ToolTimeout < 0 {
				return ErrInvalidTimeout
			}
			return nil
		},
		value: func(c *Config) any { return c.ToolTimeout },
	},
}

// Validate runs every field rule and returns all failures joined, each a
// *FieldError. The result is marked errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c == nil {
		return errors.Mark(errors.New("config is nil"), errors.ErrInvalidConfig)
	}

	var errs []error
	for _, r := range rules {
		if err := r.check(c); err != nil {
			errs = append(errs, &FieldError{Field: r.field, Value: r.value(c), Err: err})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Mark(errors.Join(errs...), errors.ErrInvalidConfig)
}

// checkPath rejects syntactically broken paths. Empty means the default;
// existence is not checked.
func checkPath(p string) error {
	if p == "" {
		return nil
	}
	if strings.ContainsRune(p, 0) {
		return ErrInvalidPath
	}
	if filepath.Clean(p) == "." {
		return ErrInvalidPath
	}
	return nil
}
