package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/store"
	"github.com/roach88/mdaq/internal/tiling"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayRunResult is the replay outcome for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Name          string `json:"name,omitempty"`
	Expected      int    `json:"expected"`
	Recorded      int    `json:"recorded"`
	Regenerated   int    `json:"regenerated"`
	Matched       int    `json:"matched"`
	FirstMismatch int    `json:"first_mismatch"`
	Complete      bool   `json:"complete"`
	SettingsOK    bool   `json:"settings_ok"`
	IRVersion     string `json:"ir_version"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay outcome.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [run-id]",
		Short: "Verify recorded runs regenerate identically",
		Long: `Regenerate the event stream of recorded runs from their stored settings
and compare it with the recorded events by event ID.

A run that was interrupted or capped is deterministic when its recorded
events are a prefix of the regenerated stream. Regeneration stops one event
past the recording, so capped runs of long streams replay cheaply.
Schedules are not compared.
Without a run ID every run in the database is replayed.

Exit codes:
  0 - Every run regenerated identically
  1 - A run diverged from its recording
  2 - Command error (database or run not found)

Examples:
  mdaq replay --db ./mdaq.db
  mdaq replay --db ./mdaq.db 01912b4c-7a3e-7f00-8000-000000000000
  mdaq replay --db ./mdaq.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runReplay(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $MDAQ_DB)")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	dbPath, err := databasePath(opts.Database, opts.Env)
	if err != nil {
		return err
	}
	if !fileExists(dbPath) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var runIDs []string
	if runID != "" {
		runIDs = []string{runID}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			runIDs = append(runIDs, r.ID)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runIDs)),
		TotalRuns:        len(runIDs),
		AllDeterministic: true,
	}
	for _, id := range runIDs {
		runResult, err := replayRun(ctx, st, id)
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayRun regenerates one run from its stored settings and compares it
// with the recording.
func replayRun(ctx context.Context, st *store.Store, runID string) (ReplayRunResult, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	var geo tiling.GeometryProvider
	if run.Geometry != nil {
		geo = *run.Geometry
	}
	stream, err := engine.Plan(ctx, run.Settings, geo, engine.FixedClock(0))
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("regenerate: %w", err)
	}
	defer stream.Stop()

	cmp, err := st.CompareStream(ctx, runID, stream.All())
	if err != nil {
		return ReplayRunResult{}, err
	}
	hash, err := ir.SettingsHash(run.Settings)
	if err != nil {
		return ReplayRunResult{}, err
	}

	settingsOK := hash == run.SettingsHash
	return ReplayRunResult{
		RunID:         runID,
		Name:          run.Name,
		Expected:      run.Settings.ExpectedEvents(),
		Recorded:      cmp.Recorded,
		Regenerated:   cmp.Regenerated,
		Matched:       cmp.Matched,
		FirstMismatch: cmp.FirstMismatch,
		Complete:      cmp.Identical,
		SettingsOK:    settingsOK,
		IRVersion:     run.IRVersion,
		Deterministic: settingsOK && cmp.Matched == cmp.Recorded,
	}, nil
}

func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s\n", status, run.RunID)
		fmt.Fprintf(w, "  Events: %d recorded, %d regenerated, %d matched\n", run.Recorded, run.Regenerated, run.Matched)
		if verbose {
			fmt.Fprintf(w, "  Name: %s\n", run.Name)
			fmt.Fprintf(w, "  IR version: %s\n", run.IRVersion)
			fmt.Fprintf(w, "  Expected: %d event(s)\n", run.Expected)
			fmt.Fprintf(w, "  Complete: %v\n", run.Complete)
		}
		if !run.SettingsOK {
			fmt.Fprintln(w, "  Warning: stored settings no longer hash to the recorded settings hash")
		}
		if run.Matched < run.Recorded {
			fmt.Fprintf(w, "  Warning: first mismatch at event %d\n", run.FirstMismatch)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
