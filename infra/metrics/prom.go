package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/pitwall/core/metrics"
)

// PromSink records engine output in Prometheus metrics.
type PromSink struct {
	degradation prometheus.Gauge
	cliffProb   prometheus.Gauge
	urgency     prometheus.Gauge
	decisions   *prometheus.CounterVec
	pitStops    *prometheus.CounterVec
}

// NewPromSink registers the engine metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	degradation := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tire_degradation_seconds",
		Help: "Smoothed tire degradation estimate in seconds of lap time loss",
	})
	cliffProb := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tire_cliff_probability",
		Help: "Probability of imminent tire cliff failure",
	})
	urgency := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pit_urgency_score",
		Help: "Composite pit urgency on a 0-10 scale",
	})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pit_decisions_total",
		Help: "Total decisions emitted by recommendation",
	}, []string{"recommendation", "mandatory"})
	pitStops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pit_stops_total",
		Help: "Total pit stops by compound taken off the car",
	}, []string{"compound"})

	if err := reg.Register(degradation); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			degradation = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cliffProb); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cliffProb = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(urgency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			urgency = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(decisions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			decisions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(pitStops); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			pitStops = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		degradation: degradation,
		cliffProb:   cliffProb,
		urgency:     urgency,
		decisions:   decisions,
		pitStops:    pitStops,
	}, nil
}

// RecordLap updates the gauges and increments the decision counter.
func (s *PromSink) RecordLap(rec coremetrics.LapRecord) error {
	s.degradation.Set(rec.Estimate)
	s.cliffProb.Set(rec.CliffProbability)
	s.urgency.Set(float64(rec.Urgency.TotalUrgency))
	s.decisions.WithLabelValues(rec.Recommendation.String(), strconv.FormatBool(rec.Mandatory)).Inc()
	return nil
}

// RecordPit counts the stop against the compound that came off.
func (s *PromSink) RecordPit(rec coremetrics.PitRecord) error {
	s.pitStops.WithLabelValues(rec.Stint.Compound.String()).Inc()
	return nil
}
