package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/sink"
	"github.com/roach88/mdaq/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database  string
	Name      string
	RunID     string
	Paced     bool
	MaxEvents int

	// Clock overrides the stream clock (for testing).
	// If nil, a StreamClock starting now is used.
	Clock engine.Clock
}

// RunOutput summarizes a finished, failed or interrupted run.
type RunOutput struct {
	RunID     string    `json:"run_id"`
	Name      string    `json:"name,omitempty"`
	Axes      []ir.Axis `json:"axes"`
	Expected  int       `json:"expected"`
	Delivered int       `json:"delivered"`
	Recorded  int64     `json:"recorded"`
	Cancelled bool      `json:"cancelled,omitempty"`
	EmptyAxis string    `json:"empty_axis,omitempty"`
	WaitedMs  int64     `json:"waited_ms,omitempty"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`

	// PriorRuns lists earlier runs recorded with identical settings.
	PriorRuns []string `json:"prior_runs,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <settings>",
		Short: "Drive an acquisition and record it",
		Long: `Drive the event stream of a settings file and record every event
in a SQLite run log (creating the database if it doesn't exist).

With --paced, each event is held until its minimum start time. Ctrl-C stops
the run between events; events already delivered stay recorded.

The database defaults to $MDAQ_DB.

Examples:
  mdaq run --db ./mdaq.db ./settings.cue
  mdaq run --db ./mdaq.db ./timelapse.yaml --paced
  mdaq run ./settings.cue --max-events 100 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAcquisition(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $MDAQ_DB)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "run name (default: settings name or file name)")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run identifier (default: new UUIDv7)")
	cmd.Flags().BoolVar(&opts.Paced, "paced", false, "hold events until their minimum start time")
	cmd.Flags().IntVar(&opts.MaxEvents, "max-events", 0, "abort once more than this many events are generated (0 = unlimited)")

	return cmd
}

func runAcquisition(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger, err := NewLogger(cmd.ErrOrStderr(), opts.Env, opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid logging configuration", err)
	}

	dbPath, err := databasePath(opts.Database, opts.Env)
	if err != nil {
		return err
	}
	res, err := loadSettings(path)
	if err != nil {
		return err
	}
	logger.Debug("settings compiled", "path", path, "expected_events", res.Settings.ExpectedEvents())

	// Open database (create if not exists)
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping acquisition", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	// The run record is written even when interrupted before the first event.
	setupCtx := context.WithoutCancel(ctx)

	runID := opts.RunID
	if runID == "" {
		runID = engine.UUIDv7Generator{}.Generate()
	} else if _, err := st.ReadRun(setupCtx, runID); err == nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s already exists", runID))
	} else if !errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	settingsHash, err := ir.SettingsHash(res.Settings)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash settings", err)
	}
	priorRuns, err := st.RunsWithSettings(setupCtx, settingsHash)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query runs", err)
	}
	if len(priorRuns) > 0 {
		logger.Info("settings already recorded", "settings_hash", settingsHash, "runs", len(priorRuns))
	}

	if err := st.CreateRun(setupCtx, store.Run{
		ID:           runID,
		Name:         runName(opts.Name, res.Settings.Name, path),
		Settings:     res.Settings,
		SettingsHash: settingsHash,
		Geometry:     res.Geometry,
	}); err != nil {
		return WrapExitError(ExitCommandError, "failed to create run", err)
	}

	recorder, err := sink.NewRecorder(setupCtx, st, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create recorder", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = engine.NewStreamClock()
	}

	targets := sink.Multi{recorder}
	if opts.Verbose && opts.Format != "json" {
		w := cmd.OutOrStdout()
		axes := res.Settings.Order()
		index := 0
		targets = append(targets, engine.SinkFunc(func(_ context.Context, ev ir.Event) error {
			fmt.Fprintln(w, formatEvent(index, axes, ev))
			index++
			return nil
		}))
	}
	var chain engine.Sink = sink.NewLogging(targets, logger.With("run_id", runID), slog.LevelDebug)
	var paced *sink.Paced
	if opts.Paced {
		paced = sink.NewPaced(chain, clock)
		chain = paced
	}

	driver := engine.NewDriver(res.Settings, res.GeometryProvider(), chain,
		engine.WithClock(clock),
		engine.WithLogger(logger),
		engine.WithRunID(runID),
		engine.WithMaxEvents(opts.MaxEvents),
	)
	report, runErr := driver.Run(ctx)
	if report == nil {
		return WrapExitError(ExitFailure, "acquisition planning failed", runErr)
	}

	out := RunOutput{
		RunID:     runID,
		Name:      res.Settings.Name,
		Axes:      report.Axes,
		Expected:  report.Expected,
		Delivered: report.Delivered,
		Recorded:  recorder.Seq(),
		PriorRuns: priorRuns,
	}
	if report.EmptyAxis != nil {
		out.EmptyAxis = string(report.EmptyAxis.Axis)
	}
	if paced != nil {
		out.WaitedMs = paced.Waited().Milliseconds()
	}
	// A paced wait cut short surfaces as an execution error wrapping ctx.Err().
	interrupted := errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded)
	out.Cancelled = report.Cancelled || interrupted
	if runErr != nil && !interrupted {
		out.Code = engineErrorCode(runErr)
		out.Error = runErr.Error()
	}

	if err := outputRun(opts, cmd, out); err != nil {
		return err
	}
	if runErr != nil && !interrupted {
		return WrapExitError(ExitFailure, "acquisition failed", runErr)
	}
	return nil
}

func outputRun(opts *RunOptions, cmd *cobra.Command, out RunOutput) error {
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.SuccessRun(out.RunID, out)
	}

	w := cmd.OutOrStdout()
	status := "✓"
	switch {
	case out.Error != "":
		status = "✗"
	case out.Cancelled:
		status = "■"
	}
	fmt.Fprintf(w, "%s Run %s: %d/%d event(s) delivered, %d recorded\n",
		status, out.RunID, out.Delivered, out.Expected, out.Recorded)
	if out.Cancelled {
		fmt.Fprintln(w, "  Interrupted")
	}
	if out.EmptyAxis != "" {
		fmt.Fprintf(w, "  Axis %s yields nothing\n", out.EmptyAxis)
	}
	if out.WaitedMs > 0 {
		fmt.Fprintf(w, "  Paced: waited %s\n", time.Duration(out.WaitedMs)*time.Millisecond)
	}
	if len(out.PriorRuns) > 0 {
		fmt.Fprintf(w, "  Same settings as %d earlier run(s)\n", len(out.PriorRuns))
	}
	if out.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", out.Error)
	}
	return nil
}

// runName picks the stored run name: flag, then settings, then file name.
func runName(flag, settingsName, path string) string {
	if flag != "" {
		return flag
	}
	if settingsName != "" {
		return settingsName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
