package metrics

import coremetrics "github.com/kilianp07/pitwall/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordLap forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordLap(rec coremetrics.LapRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordLap(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordPit forwards the record to every sink that records pit stops.
func (m *MultiSink) RecordPit(rec coremetrics.PitRecord) error {
	for _, s := range m.Sinks {
		if pr, ok := s.(coremetrics.PitRecorder); ok {
			if err := pr.RecordPit(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
