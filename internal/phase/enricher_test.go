package phase

import (
	"errors"
	"testing"

	"github.com/traitlab/pitchmetrics/internal/model"
)

func makeIntervals() []model.PhaseInterval {
	return []model.PhaseInterval{
		{MatchID: "m1", Period: 1, FrameStart: 0, FrameEnd: 100, InPossessionType: "build_up", TeamInPossessionID: 7},
		{MatchID: "m1", Period: 1, FrameStart: 101, FrameEnd: 200, InPossessionType: "create", TeamInPossessionID: 7},
		{MatchID: "m1", Period: 1, FrameStart: 300, FrameEnd: 400, InPossessionType: "finish", TeamInPossessionID: 8},
		{MatchID: "m1", Period: 2, FrameStart: 0, FrameEnd: 150, InPossessionType: "transition", TeamInPossessionID: 8},
	}
}

func TestLookupContainment(t *testing.T) {
	ix, err := NewIndex(makeIntervals())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	cases := []struct {
		period, frame int
		want          string // "" means nil
	}{
		{1, 0, "build_up"},
		{1, 100, "build_up"}, // inclusive end
		{1, 101, "create"},
		{1, 250, ""}, // gap between intervals
		{1, 350, "finish"},
		{1, 401, ""},
		{2, 75, "transition"},
		{2, 151, ""},
		{3, 10, ""}, // unknown period
	}
	for _, tc := range cases {
		got := ix.Lookup(tc.period, tc.frame)
		if tc.want == "" {
			if got != nil {
				t.Errorf("Lookup(%d, %d): want nil, got %q", tc.period, tc.frame, got.InPossessionType)
			}
			continue
		}
		if got == nil {
			t.Errorf("Lookup(%d, %d): want %q, got nil", tc.period, tc.frame, tc.want)
			continue
		}
		if got.InPossessionType != tc.want {
			t.Errorf("Lookup(%d, %d): want %q, got %q", tc.period, tc.frame, tc.want, got.InPossessionType)
		}
	}
}

func TestNewIndexRejectsOverlap(t *testing.T) {
	intervals := []model.PhaseInterval{
		{MatchID: "m1", Period: 1, FrameStart: 0, FrameEnd: 100},
		{MatchID: "m1", Period: 1, FrameStart: 100, FrameEnd: 200}, // shares frame 100
	}
	_, err := NewIndex(intervals)
	if err == nil {
		t.Fatal("expected overlap error")
	}
	if !errors.Is(err, ErrOverlap) {
		t.Errorf("expected errors.Is(err, ErrOverlap), got %v", err)
	}
}

// TestNewIndexPeriodsIndependent: identical frame ranges in different periods
// are not an overlap.
func TestNewIndexPeriodsIndependent(t *testing.T) {
	intervals := []model.PhaseInterval{
		{MatchID: "m1", Period: 1, FrameStart: 0, FrameEnd: 100},
		{MatchID: "m1", Period: 2, FrameStart: 0, FrameEnd: 100},
	}
	if _, err := NewIndex(intervals); err != nil {
		t.Fatalf("parallel periods should not overlap: %v", err)
	}
}

func TestEnrichSprints(t *testing.T) {
	ix, err := NewIndex(makeIntervals())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	sprints := []model.SprintEvent{
		{PlayerID: 101, Period: 1, MidFrame: 120}, // inside "create"
		{PlayerID: 101, Period: 1, MidFrame: 250}, // gap
		{PlayerID: 102, Period: 2, MidFrame: 10},  // inside "transition"
	}

	enriched := Enrich(ix, sprints)
	if len(enriched) != 3 {
		t.Fatalf("no event may be dropped: want 3, got %d", len(enriched))
	}
	if enriched[0].Phase == nil || enriched[0].Phase.InPossessionType != "create" {
		t.Errorf("sprint 0: expected create phase, got %+v", enriched[0].Phase)
	}
	if enriched[1].Phase != nil {
		t.Errorf("sprint 1: expected nil phase in gap, got %+v", enriched[1].Phase)
	}
	if enriched[2].Phase == nil || enriched[2].Phase.InPossessionType != "transition" {
		t.Errorf("sprint 2: expected transition phase, got %+v", enriched[2].Phase)
	}
}

// TestEnrichRuns: the join works for any event type carrying period and frame.
func TestEnrichRuns(t *testing.T) {
	ix, err := NewIndex(makeIntervals())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	runs := []model.RunEvent{
		{PlayerID: 101, Period: 1, Frame: 50},
		{PlayerID: 101, Period: 1, Frame: 999},
	}
	enriched := Enrich(ix, runs)
	if enriched[0].Phase == nil || enriched[0].Phase.InPossessionType != "build_up" {
		t.Errorf("run 0: expected build_up, got %+v", enriched[0].Phase)
	}
	if enriched[1].Phase != nil {
		t.Errorf("run 1: expected nil phase, got %+v", enriched[1].Phase)
	}
}

func TestHighValue(t *testing.T) {
	ix, err := NewIndex(makeIntervals())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	set := map[string]bool{"create": true, "finish": true, "quick_break": true, "transition": true}

	enriched := Enrich(ix, []model.SprintEvent{
		{Period: 1, MidFrame: 120}, // create
		{Period: 1, MidFrame: 50},  // build_up
		{Period: 1, MidFrame: 250}, // no phase
	})
	if !enriched[0].HighValue(set) {
		t.Error("create should be high value")
	}
	if enriched[1].HighValue(set) {
		t.Error("build_up should not be high value")
	}
	if enriched[2].HighValue(set) {
		t.Error("unphased event can never be high value")
	}
}
