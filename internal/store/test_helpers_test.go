package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/mdaq/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun inserts a run with minimal settings.
func createTestRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	run := Run{
		ID:   id,
		Name: "test",
		Settings: ir.AcquisitionSettings{
			Name:     "test",
			Channels: []ir.Channel{{Group: "Channel", Config: "DAPI"}},
			Z:        &ir.ZRange{Start: 0, Stop: 3, StepUm: 0.5, OriginUm: 10},
		},
	}
	if err := s.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	return run
}

// createTestEvent builds a z-slice event.
func createTestEvent(k int) ir.Event {
	ev := ir.NewEvent().WithAxis(ir.AxisChannel, 0).WithAxis(ir.AxisZ, k)
	ev.ChannelGroup = "Channel"
	ev.ChannelConfig = "DAPI"
	ev.ZIndex = ir.Ptr(k)
	ev.ZPositionUm = ir.Ptr(10 + float64(k)*0.5)
	return ev
}
