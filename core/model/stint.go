package model

// Stint is a contiguous run on one tire set between pit stops. Exactly one
// stint is current at any time; completed stints are archived immutably.
type Stint struct {
	Number          int
	StartLap        int
	Compound        Compound
	StartPosition   int
	LapsCompleted   int
	MaxExpectedLaps int

	// Set when the stint is archived.
	EndLap         int
	EndPosition    int
	EndDegradation float64 // smoothed degradation estimate at the stop, in seconds

	// Summary statistics over the scaled per-lap deltas of the stint.
	MeanDelta   float64
	StdDevDelta float64
}

// AgeRatio returns laps completed over the nominal compound lifetime. Tires
// may run past nominal life, so the ratio is deliberately not clamped to 1.
func (s Stint) AgeRatio() float64 {
	if s.MaxExpectedLaps <= 0 {
		return 0
	}
	return float64(s.LapsCompleted) / float64(s.MaxExpectedLaps)
}
