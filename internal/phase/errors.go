package phase

import "errors"

// ErrOverlap reports phase intervals whose frame ranges overlap within one
// period. Overlap breaks the one-phase-per-frame invariant, so the match
// batch is rejected rather than enriched ambiguously.
var ErrOverlap = errors.New("phase intervals overlap")
