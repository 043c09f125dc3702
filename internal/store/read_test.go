package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/roach88/mdaq/internal/ir"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "nope")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ReadRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestReadRun_SettingsRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	settings := ir.AcquisitionSettings{
		Name: "round trip",
		Time: &ir.TimeLapse{Frames: 3, IntervalMs: 500},
		Positions: []ir.XYStagePosition{
			{Center: ir.Point{X: 1.25, Y: -3}, Label: "A"},
		},
		Channels: []ir.Channel{
			{Group: "Channel", Config: "DAPI", ExposureMs: ir.Ptr(20.0)},
			{Group: "Channel", Config: "FITC", ZOffsetUm: 1.5},
		},
		Z:            &ir.ZRange{Start: 0, Stop: 5, StepUm: 0.5, OriginUm: 10},
		AxisOrder:    []ir.Axis{ir.AxisTime, ir.AxisPosition, ir.AxisZ, ir.AxisChannel},
		ZComposition: ir.ZCompositionAdditive,
	}
	if err := s.CreateRun(ctx, Run{ID: "r", Name: settings.Name, Settings: settings}); err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, "r")
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if !reflect.DeepEqual(got.Settings, settings) {
		t.Errorf("Settings = %+v, want %+v", got.Settings, settings)
	}
}

func TestReadEvents_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	// Written out of order; read back by seq.
	for _, seq := range []int64{3, 1, 2} {
		rec := EventRecord{RunID: "run-1", Seq: seq, Event: createTestEvent(int(seq - 1))}
		if err := s.WriteEvent(ctx, rec); err != nil {
			t.Fatalf("WriteEvent(%d) failed: %v", seq, err)
		}
	}

	records, err := s.ReadEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d events, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Seq != int64(i+1) {
			t.Errorf("records[%d].Seq = %d, want %d", i, rec.Seq, i+1)
		}
		if !reflect.DeepEqual(rec.Event, createTestEvent(i)) {
			t.Errorf("records[%d].Event = %+v, want %+v", i, rec.Event, createTestEvent(i))
		}
	}
}

func TestReadEvents_PreservesSchedule(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	ev := createTestEvent(0).WithAxis(ir.AxisTime, 0)
	ev.MinimumStartTimeMs = ir.Ptr(int64(1500))
	ev.StageXY = &ir.Point{X: 100.5, Y: -2}
	ev.GridRow, ev.GridCol = ir.Ptr(0), ir.Ptr(1)
	ev.PositionLabel = "Grid_0_1"
	if err := s.WriteEvent(ctx, EventRecord{RunID: "run-1", Seq: 1, Event: ev}); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}

	records, err := s.ReadEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if !reflect.DeepEqual(records[0].Event, ev) {
		t.Errorf("Event = %+v, want %+v", records[0].Event, ev)
	}
}

func TestReadEvents_EmptyRun(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, "run-1")

	records, err := s.ReadEvents(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("ReadEvents() = %v, want empty non-nil slice", records)
	}
}

func TestLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	last, err := s.LastSeq(ctx, "run-1")
	if err != nil {
		t.Fatalf("LastSeq() failed: %v", err)
	}
	if last != 0 {
		t.Errorf("LastSeq() on empty run = %d, want 0", last)
	}

	for seq := int64(1); seq <= 4; seq++ {
		if err := s.WriteEvent(ctx, EventRecord{RunID: "run-1", Seq: seq, Event: createTestEvent(0)}); err != nil {
			t.Fatalf("WriteEvent() failed: %v", err)
		}
	}
	if last, _ = s.LastSeq(ctx, "run-1"); last != 4 {
		t.Errorf("LastSeq() = %d, want 4", last)
	}
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "b-run")
	createTestRun(t, s, "a-run")
	for seq := int64(1); seq <= 2; seq++ {
		if err := s.WriteEvent(ctx, EventRecord{RunID: "b-run", Seq: seq, Event: createTestEvent(int(seq))}); err != nil {
			t.Fatalf("WriteEvent() failed: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "a-run" || runs[1].ID != "b-run" {
		t.Errorf("order = %s, %s; want a-run, b-run", runs[0].ID, runs[1].ID)
	}
	if runs[0].EventCount != 0 || runs[1].EventCount != 2 || runs[1].LastSeq != 2 {
		t.Errorf("counts = %+v", runs)
	}
}

func TestRunsWithSettings(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, s, "run-2")
	createTestRun(t, s, "run-1")

	other := Run{ID: "run-3", Settings: ir.AcquisitionSettings{Name: "other"}}
	if err := s.CreateRun(ctx, other); err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	hash, err := ir.SettingsHash(run.Settings)
	if err != nil {
		t.Fatalf("SettingsHash() failed: %v", err)
	}
	ids, err := s.RunsWithSettings(ctx, hash)
	if err != nil {
		t.Fatalf("RunsWithSettings() failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "run-1" || ids[1] != "run-2" {
		t.Errorf("RunsWithSettings() = %v, want [run-1 run-2]", ids)
	}

	ids, err = s.RunsWithSettings(ctx, "unknown")
	if err != nil {
		t.Fatalf("RunsWithSettings() failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("RunsWithSettings(unknown) = %v, want empty", ids)
	}
}

func TestEventRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-b")
	createTestRun(t, s, "run-a")

	shared := createTestEvent(1)
	for _, rec := range []EventRecord{
		{RunID: "run-b", Seq: 1, Event: shared},
		{RunID: "run-a", Seq: 1, Event: shared},
		{RunID: "run-a", Seq: 2, Event: createTestEvent(2)},
	} {
		if err := s.WriteEvent(ctx, rec); err != nil {
			t.Fatalf("WriteEvent() failed: %v", err)
		}
	}

	id, err := ir.EventID(shared)
	if err != nil {
		t.Fatalf("EventID() failed: %v", err)
	}
	runs, err := s.EventRuns(ctx, id)
	if err != nil {
		t.Fatalf("EventRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0] != "run-a" || runs[1] != "run-b" {
		t.Errorf("EventRuns() = %v, want [run-a run-b]", runs)
	}
}
