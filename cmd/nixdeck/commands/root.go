// Package commands implements the CLI commands for nixdeck.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/cmd"
	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/container"
	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/flags"
	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/rice"
	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/snapshot"
	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/config"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the rotating log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// loadedConfig is the resolved configuration, nil when loading failed.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write JSON logs to this file, rotated by size")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: $XDG_CONFIG_HOME/nixdeck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(flags.AssumeYesVar(), "yes", "y", false,
		"skip confirmation prompts")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("nixdeck version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(snapshot.Cmd)
	rootCmd.AddCommand(container.Cmd)
	rootCmd.AddCommand(rice.Cmd)
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = loadConfig(configFile)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "nixdeck",
	Short: "Snapshot, restore, and swap desktop configuration",
	Long: `nixdeck captures the configuration of your desktop components (bars,
compositors, terminals, launchers, GTK) so experiments can be tried and
rolled back safely.

Snapshots hold the six components most often broken by experiments.
Containers hold the full set and can be exported as an archive. The rice
commands read and replace a single component's main config file, always
keeping a backup of the previous version.`,
	Example: `  # Snapshot the current setup before experimenting
  nixdeck snapshot create before-picom

  # Roll back
  nixdeck snapshot restore before-picom

  # Save a complete look and share it
  nixdeck container create nord
  nixdeck container export nord nord.tar.gz

  See Also: nixdeck doctor, nixdeck config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return setupEnv(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("NIXDECK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(
			errors.Newf("invalid log format %q", logFormat),
			"Use --log-format text or --log-format json",
		)
	}

	console := logging.NewStreamHandler(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})

	var file slog.Handler
	if logFile != "" {
		file = logging.NewFileHandler(logging.NewFileWriter(logging.FileConfig{Path: logFile}), level)
	}

	logger := slog.New(logging.Tee(console, file))
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// setupEnv builds the manager environment from the loaded configuration.
// Commands that work without a valid config skip the load error.
func setupEnv(cmd *cobra.Command) error {
	if loadedConfig != nil {
		flags.SetEnv(cli.NewEnv(loadedConfig, logging.FromContext(cmd.Context())))
	}
	if skipsConfig(cmd) {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "doctor", "config", "gen-doc", "completion":
			return true
		}
	}
	return false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
