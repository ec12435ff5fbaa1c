package events

import "github.com/kilianp07/pitwall/core/model"

// PitEvent is published when a stint is closed and a new one opened.
type PitEvent struct {
	RunID    string
	Lap      int
	Archived model.Stint
	New      model.Stint
}

// MandatoryStopEvent is published when the hard age limit forces a stop,
// independent of the probabilistic model.
type MandatoryStopEvent struct {
	RunID    string
	Lap      int
	AgeRatio float64
}
