package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/tiling"
)

// marshalSettings converts settings to JSON TEXT for storage.
func marshalSettings(settings ir.AcquisitionSettings) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	return string(data), nil
}

// unmarshalSettings parses JSON TEXT to settings.
func unmarshalSettings(data string) (ir.AcquisitionSettings, error) {
	var settings ir.AcquisitionSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return ir.AcquisitionSettings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

// marshalGeometry converts an optional geometry to a nullable JSON column.
func marshalGeometry(geo *tiling.StaticGeometry) (sql.NullString, error) {
	if geo == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(geo)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal geometry: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalGeometry parses a nullable JSON column to an optional geometry.
func unmarshalGeometry(col sql.NullString) (*tiling.StaticGeometry, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var geo tiling.StaticGeometry
	if err := json.Unmarshal([]byte(col.String), &geo); err != nil {
		return nil, fmt.Errorf("unmarshal geometry: %w", err)
	}
	return &geo, nil
}

// marshalEvent converts an event to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so identical events store identical bytes.
func marshalEvent(ev ir.Event) (string, error) {
	data, err := ir.MarshalCanonical(ev.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(data), nil
}

// unmarshalEvent parses canonical JSON TEXT to an event. The canonical keys
// are the event's JSON field names.
func unmarshalEvent(data string) (ir.Event, error) {
	ev := ir.NewEvent()
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return ir.Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if ev.AxisPositions == nil {
		ev.AxisPositions = map[ir.Axis]int{}
	}
	return ev, nil
}
