package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mdaq/internal/compiler"
	"github.com/roach88/mdaq/internal/ir"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Expected int                        `json:"expected,omitempty"`
	Axes     []ir.Axis                  `json:"axes,omitempty"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <settings>",
		Short: "Validate a settings file",
		Long: `Check a settings file against the schema and the engine's rules
without planning it.

Exit codes:
  0 - Settings are valid
  1 - Settings are invalid
  2 - Command error (file not found, etc.)

Examples:
  mdaq validate ./settings.cue
  mdaq validate ./settings.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, fmt.Sprintf("settings file not found: %s", path))
	}
	formatter.VerboseLog("Validating %s", path)

	res, err := compiler.Load(path)
	if err != nil {
		errs, ok := settingsErrors(err)
		if !ok {
			return WrapExitError(ExitCommandError, "failed to read settings", err)
		}
		return outputValidationErrors(formatter, errs)
	}

	result := ValidationResult{
		Valid:    true,
		Expected: res.Settings.ExpectedEvents(),
		Axes:     res.Settings.Order(),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Settings valid: %d event(s), axes %s\n", result.Expected, formatAxes(result.Axes))
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, errs compiler.ValidationErrors) error {
	if formatter.Format == "json" {
		data := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Failure(errs[0].Code, errs[0].Message, data); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", e.Code, e.Field, e.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
