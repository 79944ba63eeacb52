package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/config"
	"github.com/thoreinstein/nixdeck/internal/container"
	"github.com/thoreinstein/nixdeck/internal/doctor"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
	"github.com/thoreinstein/nixdeck/internal/paths"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"remove leftovers of interrupted captures and restores")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and storage issues",
	Long: `Run diagnostic checks on the nixdeck configuration, the data root, and
the live component directory.

Finds captures without metadata, staging directories left by interrupted
creates, and incoming directories left by interrupted restores. With --fix,
the leftovers are removed; incomplete captures are only reported.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	runner := newDoctorRunner(ctx, loadedConfig, viper.ConfigFileUsed(), configLoadErr)
	return runDoctorWithWriter(ctx, cmd.OutOrStdout(), runner, doctorOptions{
		json:    doctorJSON,
		quiet:   doctorQuiet,
		verbose: doctorVerbose,
		fix:     doctorFix,
	})
}

type doctorOptions struct {
	json, quiet, verbose, fix bool
}

// newDoctorRunner registers the checks that apply to cfg. When the config
// failed to load only the config check runs.
func newDoctorRunner(ctx context.Context, cfg *config.Config, usedFile string, loadErr error) *doctor.Runner {
	logger := logging.FromContext(ctx)
	runner := doctor.NewRunner(logger)
	runner.AddCheck(doctor.NewConfigCheck(usedFile, loadErr))
	if cfg == nil {
		return runner
	}

	env := cli.NewEnv(cfg, logger)
	snapshots := env.Snapshots()
	containers := env.Containers()

	runner.AddCheck(doctor.NewDirCheck("root-dir", cfg.RootDir, false))
	runner.AddCheck(doctor.NewDirCheck("component-dir", cfg.ComponentDir, true))
	runner.AddCheck(doctor.NewCaptureCheck("snapshot", paths.SnapshotsDir(cfg.RootDir),
		func(ctx context.Context) ([]string, error) {
			infos, err := snapshots.ListInfo(ctx)
			return incompleteNames(infos, func(i snapshot.Info) string { return i.Name }), err
		}))
	runner.AddCheck(doctor.NewCaptureCheck("container", paths.ContainersDir(cfg.RootDir),
		func(ctx context.Context) ([]string, error) {
			infos, err := containers.ListInfo(ctx)
			return incompleteNames(infos, func(i container.Info) string { return i.Name }), err
		}))
	runner.AddCheck(doctor.NewLeftoverCheck(cfg.ComponentDir))
	runner.AddCheck(doctor.NewToolCheck(cfg.Archiver, "container export"))
	return runner
}

func incompleteNames[T interface{ Complete() bool }](infos []T, name func(T) string) []string {
	var names []string
	for _, info := range infos {
		if !info.Complete() {
			names = append(names, name(info))
		}
	}
	return names
}

func runDoctorWithWriter(ctx context.Context, w io.Writer, runner *doctor.Runner, opts doctorOptions) error {
	report := runner.Run(ctx)

	if opts.fix {
		fixes := runner.Fix(ctx)
		if !opts.quiet && !opts.json {
			outputFixes(w, fixes)
		}
		// Re-run so the report and exit code reflect the fixed state
		report = runner.Run(ctx)
	}

	switch {
	case opts.quiet:
	case opts.json:
		if err := cli.WriteJSON(w, report); err != nil {
			return err
		}
	default:
		outputDoctorText(w, report, opts.verbose)
	}

	// Determine exit code based on results
	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func outputFixes(w io.Writer, fixes []doctor.FixResult) {
	if len(fixes) == 0 {
		fmt.Fprintln(w, "Nothing to fix")
		fmt.Fprintln(w)
		return
	}
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed: %s (%s)\n", color.GreenString("✓"), f.Path, f.Description)
		} else {
			fmt.Fprintf(w, "%s not fixed: %s (%s)\n", color.RedString("✗"), f.Path, f.Description)
		}
	}
	fmt.Fprintln(w)
}

func outputDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	// In normal mode, show only errors and warnings
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		for _, p := range result.Paths {
			fmt.Fprintf(w, "  %s\n", cli.Muted(p))
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
