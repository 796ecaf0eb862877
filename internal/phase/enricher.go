// Package phase joins timestamped events to phase-of-play intervals by
// point-in-interval containment on the event's representative frame. The
// join is generic: anything that can name its period and a single frame can
// be enriched.
package phase

import (
	"fmt"
	"sort"

	"github.com/traitlab/pitchmetrics/internal/model"
)

// FrameStamped is the capability required for a phase join.
type FrameStamped interface {
	PeriodNumber() int
	RepresentativeFrame() int
}

// Enriched pairs an event with the phase containing its representative
// frame. Phase is nil when the frame falls in an unclassified gap; the
// event is kept for volume counts but excluded from phase-conditioned
// rates downstream.
type Enriched[E FrameStamped] struct {
	Event E
	Phase *model.PhaseInterval
}

// Index is a period-scoped, sorted interval index supporting O(log n)
// point lookups.
type Index struct {
	byPeriod map[int][]model.PhaseInterval
}

// NewIndex builds an index from a match's phase intervals. Returns
// ErrOverlap (wrapped with match/period context) if any two intervals in
// the same period overlap.
func NewIndex(intervals []model.PhaseInterval) (*Index, error) {
	byPeriod := make(map[int][]model.PhaseInterval)
	for _, iv := range intervals {
		byPeriod[iv.Period] = append(byPeriod[iv.Period], iv)
	}
	for period, ivs := range byPeriod {
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].FrameStart < ivs[j].FrameStart })
		for i := 1; i < len(ivs); i++ {
			if ivs[i].FrameStart <= ivs[i-1].FrameEnd {
				return nil, fmt.Errorf("match %s period %d frames [%d, %d] vs [%d, %d]: %w",
					ivs[i].MatchID, period,
					ivs[i-1].FrameStart, ivs[i-1].FrameEnd,
					ivs[i].FrameStart, ivs[i].FrameEnd, ErrOverlap)
			}
		}
	}
	return &Index{byPeriod: byPeriod}, nil
}

// Lookup returns the interval containing frame within period, or nil when
// the frame falls in a gap. Non-overlapping input makes the match unique.
func (ix *Index) Lookup(period, frame int) *model.PhaseInterval {
	ivs := ix.byPeriod[period]
	// First interval starting after frame; the candidate is its predecessor.
	i := sort.Search(len(ivs), func(i int) bool { return ivs[i].FrameStart > frame })
	if i == 0 {
		return nil
	}
	if iv := &ivs[i-1]; iv.Contains(frame) {
		return iv
	}
	return nil
}

// Enrich joins each event to at most one phase. Events are returned in
// input order; no event is ever dropped here.
func Enrich[E FrameStamped](ix *Index, events []E) []Enriched[E] {
	out := make([]Enriched[E], len(events))
	for i, ev := range events {
		out[i] = Enriched[E]{
			Event: ev,
			Phase: ix.Lookup(ev.PeriodNumber(), ev.RepresentativeFrame()),
		}
	}
	return out
}

// HighValue reports whether the enriched event sits in one of the
// enumerated high-value in-possession phase types. The set is passed by
// the caller; it is configuration, not join logic.
func (e Enriched[E]) HighValue(phaseSet map[string]bool) bool {
	return e.Phase != nil && phaseSet[e.Phase.InPossessionType]
}
