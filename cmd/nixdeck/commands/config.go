package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/config"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/paths"
	"github.com/thoreinstein/nixdeck/pkg/fileutil"
)

var (
	configInitForce  bool
	configShowFormat string
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml",
		"output format: yaml, toml, json")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nixdeck configuration",
	Long: `Manage nixdeck configuration stored in $XDG_CONFIG_HOME/nixdeck/config.yaml.

Every key can also be set from the environment with the NIXDECK_ prefix,
e.g. NIXDECK_ROOT_DIR or NIXDECK_TOOL_TIMEOUT=30s.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Write a config file with the defaults
  nixdeck config init

  # Show the effective configuration as TOML
  nixdeck config show --format toml

See Also: nixdeck doctor`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Long: `Write the default configuration to the config file. Fails if the file
already exists unless --force is given. The --config flag selects a
different path.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Print the configuration after defaults, the config file, and environment overrides are applied.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
	},
}

// configView is the printed form of the configuration. Durations are
// rendered as strings so every format shows "2m0s" rather than nanoseconds.
type configView struct {
	Version      int    `yaml:"version" toml:"version" json:"version"`
	RootDir      string `yaml:"root_dir" toml:"root_dir" json:"root_dir"`
	ComponentDir string `yaml:"component_dir" toml:"component_dir" json:"component_dir"`
	Archiver     string `yaml:"archiver" toml:"archiver" json:"archiver"`
	ToolTimeout  string `yaml:"tool_timeout" toml:"tool_timeout" json:"tool_timeout"`
}

func newConfigView(cfg *config.Config) configView {
	return configView{
		Version:      cfg.Version,
		RootDir:      cfg.RootDir,
		ComponentDir: cfg.ComponentDir,
		Archiver:     cfg.Archiver,
		ToolTimeout:  cfg.ToolTimeout.String(),
	}
}

// configFilePath returns the file viper loaded, else where init would write.
func configFilePath() string {
	if configFile != "" {
		return configFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.ConfigFileDir(), "config.yaml")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	return runConfigInitWithWriter(cmd.OutOrStdout(), configFilePath(), configInitForce)
}

func runConfigInitWithWriter(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrAlreadyExists, "config file %s", path),
			"Use --force to overwrite it",
		)
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return err
	}

	def := config.Default()
	def.RootDir = "~/." + paths.AppName
	view := newConfigView(def)
	if err := fileutil.WriteYAML(path, view); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Wrote %s\n", cli.Name(path))
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return runConfigShowWithWriter(cmd.OutOrStdout(), loadedConfig, configShowFormat)
}

func runConfigShowWithWriter(w io.Writer, cfg *config.Config, format string) error {
	view := newConfigView(cfg)

	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case "toml":
		return errors.Wrap(toml.NewEncoder(w).Encode(view), "encoding TOML")
	case "json":
		return cli.WriteJSON(w, view)
	default:
		return errors.NewUserError(
			errors.Newf("unknown format %q", format),
			"Use --format yaml, toml, or json",
		)
	}
}
