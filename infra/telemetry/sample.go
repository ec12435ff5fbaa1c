// Package telemetry provides lap-sample sources for the race loop: CSV
// replay of exported session data and a live MQTT feed. Both yield the same
// LapSample contract; the engine itself never touches either.
package telemetry

import "github.com/kilianp07/pitwall/core/model"

// LapSample is one lap of telemetry as produced by the session exporter or
// published on the live feed. DegradationDelta is the noisy measurement the
// engine consumes: seconds lost to the fastest lap of the stint.
type LapSample struct {
	Lap              int            `json:"lap"`
	StintNumber      int            `json:"stint"`
	Compound         model.Compound `json:"compound"`
	TireLife         int            `json:"tire_life"`
	TrackTemp        float64        `json:"track_temp"`
	LapTimeSec       float64        `json:"lap_time_sec"`
	DegradationDelta float64        `json:"degradation_delta"`
}
