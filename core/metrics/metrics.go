package metrics

import (
	"time"

	"github.com/kilianp07/pitwall/core/model"
)

// LapRecord captures everything the engine derived for one lap, for
// observability purposes.
type LapRecord struct {
	RunID            string
	Lap              int
	Compound         model.Compound
	Position         int
	Weather          model.Weather
	RawDelta         float64
	ScaledDelta      float64
	Estimate         float64
	Covariance       float64
	CliffProbability float64
	Urgency          model.UrgencyReport
	Recommendation   model.Recommendation
	Mandatory        bool
	Time             time.Time
}

// PitRecord captures a completed stint at the moment of the stop.
type PitRecord struct {
	RunID   string
	Lap     int
	Stint   model.Stint
	NewTire model.Compound
	Time    time.Time
}

// LapRecorder records per-lap engine output.
type LapRecorder interface {
	RecordLap(rec LapRecord) error
}

// PitRecorder records pit stops.
type PitRecorder interface {
	RecordPit(rec PitRecord) error
}

// MetricsSink is the minimal sink the host wires into the race loop.
// Implementations may additionally satisfy PitRecorder.
type MetricsSink interface {
	LapRecorder
}

// NopSink discards all records.
type NopSink struct{}

// RecordLap implements LapRecorder.
func (NopSink) RecordLap(LapRecord) error { return nil }

// RecordPit implements PitRecorder.
func (NopSink) RecordPit(PitRecord) error { return nil }
