// Package advisory defines the boundary to an external decision advisory,
// such as a remote natural-language strategy service. The engine never calls
// an advisor itself: the host obtains a verdict outside the tick and feeds it
// back into reconciliation, keeping the engine deterministic and offline.
package advisory

import (
	"context"

	"github.com/kilianp07/pitwall/core/model"
)

// Verdict is the advisory's discrete opinion on pitting.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictStay
	VerdictPit
)

// String returns a human-readable representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictStay:
		return "stay"
	case VerdictPit:
		return "pit"
	default:
		return ""
	}
}

// Snapshot is the numeric state handed to an advisor. It contains everything
// the engine derived for the tick and nothing the advisor could mutate.
type Snapshot struct {
	Lap              int
	Estimate         float64
	CliffProbability float64
	Urgency          model.UrgencyReport
	Recommendation   model.Recommendation
}

// Advisor produces a verdict for a tick snapshot. Implementations may block
// on I/O; callers must invoke them outside the engine's tick boundary.
type Advisor interface {
	Advise(ctx context.Context, snap Snapshot) (Verdict, error)
}
