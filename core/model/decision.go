package model

// Recommendation is the discrete verdict produced by the decision ladder.
type Recommendation int

const (
	StayOut Recommendation = iota
	ConsiderPit
	PitSoon
	PitImmediately
)

// String returns a human-readable representation of the recommendation.
func (r Recommendation) String() string {
	switch r {
	case StayOut:
		return "STAY_OUT"
	case ConsiderPit:
		return "CONSIDER_PIT"
	case PitSoon:
		return "PIT_SOON"
	case PitImmediately:
		return "PIT_IMMEDIATELY"
	default:
		return "unknown"
	}
}

// UrgencyReport holds the bounded [0,10] urgency sub-scores and the weighted
// composite. It is rebuilt from scratch every tick, never mutated in place.
type UrgencyReport struct {
	TireUrgency     int
	FuelUrgency     int
	StrategyUrgency int
	TotalUrgency    int
	ShouldPit       bool
	// Reasons lists one tag per fired rule, in evaluation order, for audit.
	Reasons []string
}

// Decision is the engine's verdict for a single tick. It exposes both the
// ladder recommendation and the composite urgency so a host can require
// agreement between the two signals before committing to a stop.
type Decision struct {
	Recommendation Recommendation
	Urgency        UrgencyReport
	Mandatory      bool

	// Filter outputs for audit and observability.
	Estimate         float64
	Covariance       float64
	CliffProbability float64

	// Advisory names the external advisory verdict applied during
	// reconciliation, empty when none was.
	Advisory string
}
