package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	StartMs int64
	Limit   int
}

// PlanOutput is the JSON payload of the plan command.
type PlanOutput struct {
	Name      string           `json:"name,omitempty"`
	Axes      []ir.Axis        `json:"axes"`
	Expected  int              `json:"expected"`
	Listed    int              `json:"listed"`
	EmptyAxes []ir.Axis        `json:"empty_axes,omitempty"`
	Events    []map[string]any `json:"events"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <settings>",
		Short: "Print the event stream for a settings file",
		Long: `Expand a settings file into its event stream without executing it.

The time axis reads a fixed clock (--start-ms), so the printed schedule is
reproducible.

Examples:
  mdaq plan ./settings.cue
  mdaq plan ./settings.yaml --limit 20
  mdaq plan ./settings.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.StartMs, "start-ms", 0, "stream clock reading at the first time point")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many events (0 = all)")

	return cmd
}

func runPlan(opts *PlanOptions, path string, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must not be negative")
	}
	res, err := loadSettings(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stream, err := engine.Plan(ctx, res.Settings, res.GeometryProvider(), engine.FixedClock(opts.StartMs))
	if err != nil {
		return WrapExitError(ExitFailure, "plan failed", err)
	}
	defer stream.Stop()

	out := PlanOutput{
		Name:      res.Settings.Name,
		Axes:      stream.Axes(),
		Expected:  res.Settings.ExpectedEvents(),
		EmptyAxes: res.Settings.EmptyAxes(),
		Events:    []map[string]any{},
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	if opts.Format != "json" {
		fmt.Fprintf(formatter.Writer, "Plan %q: %d event(s), axes %s\n", out.Name, out.Expected, formatAxes(out.Axes))
		for _, a := range out.EmptyAxes {
			fmt.Fprintf(formatter.Writer, "  axis %s yields nothing; the stream is empty\n", a)
		}
	}

	for ev := range stream.All() {
		if opts.Format == "json" {
			out.Events = append(out.Events, ev.CanonicalMap())
		} else {
			fmt.Fprintln(formatter.Writer, formatEvent(out.Listed, out.Axes, ev))
		}
		out.Listed++
		if opts.Limit > 0 && out.Listed >= opts.Limit {
			break
		}
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	if out.Listed < out.Expected {
		fmt.Fprintf(formatter.Writer, "... %d more\n", out.Expected-out.Listed)
	}
	return nil
}
