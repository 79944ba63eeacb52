// Package config provides configuration management for the nixdeck CLI.
//
// This package handles loading and validating nixdeck's own configuration
// file. It is distinct from the desktop component configuration that
// nixdeck snapshots and restores.
//
// # Configuration File
//
// The configuration file is searched in $NIXDECK_CONFIG_DIR, the current
// directory, and ~/.config/nixdeck/ (in that order). It uses YAML:
//
//	version: 1
//	root_dir: ~/.nixdeck        # snapshots/ and containers/ live here
//	component_dir: ~/.config    # live waybar/, kitty/, ... directories
//	archiver: tar               # used by container export
//	tool_timeout: 2m            # bound on external tool runs
//
// Every key can be overridden from the environment with the NIXDECK_
// prefix, for example NIXDECK_ROOT_DIR.
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Resolve(); err != nil {
//	    // no home directory: report, don't abort
//	}
//
// [Load] validates the configuration; [Config.Resolve] fills in the root
// directories that were left empty.
package config
