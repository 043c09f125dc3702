package store

import (
	"context"
	"fmt"

	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/tiling"
)

// Run is the stored description of one acquisition run.
type Run struct {
	ID           string
	Name         string
	Settings     ir.AcquisitionSettings
	SettingsHash string

	// Geometry is the camera description a tile grid was built from, nil
	// when the settings list positions explicitly.
	Geometry *tiling.StaticGeometry

	EngineVersion string
	IRVersion     string
}

// EventRecord is one accepted event of a run.
type EventRecord struct {
	RunID   string
	Seq     int64
	EventID string
	Event   ir.Event
}

// CreateRun inserts a run record. SettingsHash, EngineVersion and IRVersion
// are filled in when empty.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a run created twice keeps
// its first settings.
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	if run.SettingsHash == "" {
		hash, err := ir.SettingsHash(run.Settings)
		if err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		run.SettingsHash = hash
	}
	if run.EngineVersion == "" {
		run.EngineVersion = ir.EngineVersion
	}
	if run.IRVersion == "" {
		run.IRVersion = ir.IRVersion
	}

	settingsJSON, err := marshalSettings(run.Settings)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	geometryJSON, err := marshalGeometry(run.Geometry)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, settings, settings_hash, geometry, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Name,
		settingsJSON,
		run.SettingsHash,
		geometryJSON,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// WriteEvent appends an event to a run. EventID is computed when empty.
// Uses ON CONFLICT(run_id, seq) DO NOTHING for idempotency - a second write
// at the same seq is silently ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, rec EventRecord) error {
	if rec.EventID == "" {
		id, err := ir.EventID(rec.Event)
		if err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		rec.EventID = id
	}
	payload, err := marshalEvent(rec.Event)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events
		(run_id, seq, event_id, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		rec.RunID,
		rec.Seq,
		rec.EventID,
		payload,
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
