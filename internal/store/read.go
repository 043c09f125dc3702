package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is a run listing entry.
type RunSummary struct {
	ID           string
	Name         string
	SettingsHash string
	EventCount   int
	LastSeq      int64
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	var (
		run          Run
		settingsJSON string
		geometryJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, settings, settings_hash, geometry, engine_version, ir_version
		FROM runs
		WHERE id = ?
	`, runID).Scan(
		&run.ID,
		&run.Name,
		&settingsJSON,
		&run.SettingsHash,
		&geometryJSON,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}

	if run.Settings, err = unmarshalSettings(settingsJSON); err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	if run.Geometry, err = unmarshalGeometry(geometryJSON); err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return run, nil
}

// ReadEvents returns all events of a run.
// Results are ordered by seq ASC; the primary key makes the order total.
//
// Returns an empty slice (not nil) if the run has no events.
func (s *Store) ReadEvents(ctx context.Context, runID string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, event_id, payload
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []EventRecord{}
	for rows.Next() {
		var (
			rec     EventRecord
			payload string
		)
		if err := rows.Scan(&rec.RunID, &rec.Seq, &rec.EventID, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if rec.Event, err = unmarshalEvent(payload); err != nil {
			return nil, fmt.Errorf("event %s/%d: %w", rec.RunID, rec.Seq, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// LastSeq returns the highest seq recorded for a run, 0 if it has none.
// A recorder resuming a run starts its clock here.
func (s *Store) LastSeq(ctx context.Context, runID string) (int64, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM events WHERE run_id = ?
	`, runID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return last.Int64, nil
}

// ListRuns returns every run with its event count.
// Results are ordered by id COLLATE BINARY; UUIDv7 IDs sort by creation.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.settings_hash, COUNT(e.seq), COALESCE(MAX(e.seq), 0)
		FROM runs r
		LEFT JOIN events e ON e.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.SettingsHash, &rs.EventCount, &rs.LastSeq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunsWithSettings returns the IDs of runs recorded with the given settings
// hash, ordered by id.
func (s *Store) RunsWithSettings(ctx context.Context, settingsHash string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs
		WHERE settings_hash = ?
		ORDER BY id COLLATE BINARY ASC
	`, settingsHash)
	if err != nil {
		return nil, fmt.Errorf("query runs by settings: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return ids, nil
}

// EventRuns returns the IDs of runs that recorded an event with eventID.
func (s *Store) EventRuns(ctx context.Context, eventID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT run_id FROM events
		WHERE event_id = ?
		ORDER BY run_id COLLATE BINARY ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query runs by event: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return ids, nil
}
