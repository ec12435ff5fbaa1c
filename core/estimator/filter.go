// Package estimator implements the scalar Kalman filter that turns noisy
// per-lap degradation deltas into a smoothed wear estimate, and the logistic
// cliff model mapping that estimate to a failure probability.
package estimator

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateFilter signals a non-positive combined variance. It indicates
// a configuration bug and is fatal to the run, never retried.
var ErrDegenerateFilter = errors.New("degenerate filter: non-positive combined variance")

// Config holds the filter parameters, immutable after construction.
type Config struct {
	// ProcessNoise (Q) models how unpredictable the wear process itself is.
	ProcessNoise float64 `json:"process_noise"`
	// MeasurementNoise (R) models how noisy the raw lap deltas are.
	MeasurementNoise float64 `json:"measurement_noise"`
	// WearRate is the expected degradation added per lap, in seconds.
	WearRate float64 `json:"wear_rate"`
	// InitialEstimate and InitialCovariance are the priors applied at
	// construction and at every reset.
	InitialEstimate   float64 `json:"initial_estimate"`
	InitialCovariance float64 `json:"initial_covariance"`
}

// SetDefaults applies the baseline tuning for lap-delta telemetry.
func (c *Config) SetDefaults() {
	if c.ProcessNoise == 0 && c.MeasurementNoise == 0 && c.InitialCovariance == 0 {
		c.ProcessNoise = 0.01
		c.MeasurementNoise = 0.5
		c.WearRate = 0.05
		c.InitialCovariance = 1.0
	}
}

// Validate checks that the configuration yields a well-posed filter.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"process_noise":      c.ProcessNoise,
		"measurement_noise":  c.MeasurementNoise,
		"wear_rate":          c.WearRate,
		"initial_estimate":   c.InitialEstimate,
		"initial_covariance": c.InitialCovariance,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	if c.ProcessNoise < 0 {
		return fmt.Errorf("process_noise must be >= 0, got %v", c.ProcessNoise)
	}
	if c.MeasurementNoise < 0 {
		return fmt.Errorf("measurement_noise must be >= 0, got %v", c.MeasurementNoise)
	}
	if c.InitialCovariance <= 0 {
		return fmt.Errorf("initial_covariance must be > 0, got %v", c.InitialCovariance)
	}
	return nil
}

// Filter is a scalar Kalman filter over the true degradation state. The only
// mutable state is the estimate x and its covariance P; Q, R and the wear
// rate are fixed at construction. One filter instance is owned by exactly one
// engine.
type Filter struct {
	cfg Config
	x   float64 // smoothed degradation estimate, seconds
	p   float64 // estimate error covariance
}

// New builds a filter initialized to the configured priors.
func New(cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Filter{cfg: cfg, x: cfg.InitialEstimate, p: cfg.InitialCovariance}, nil
}

// PredictUpdate runs one predict/correct cycle against a noisy measurement
// and returns the corrected estimate and covariance. The call assumes exactly
// one wear-rate interval has elapsed since the previous call. State is only
// committed once the gain denominator is known to be positive, so a failed
// call leaves the filter untouched.
//
// The estimate is not clamped: a transiently negative smoothed wear is
// meaningful signal, not an error.
func (f *Filter) PredictUpdate(measurement float64) (estimate, covariance float64, err error) {
	if math.IsNaN(measurement) || math.IsInf(measurement, 0) {
		return f.x, f.p, fmt.Errorf("measurement must be finite, got %v", measurement)
	}

	xPred := f.x + f.cfg.WearRate
	pPred := f.p + f.cfg.ProcessNoise

	denom := pPred + f.cfg.MeasurementNoise
	if denom <= 0 {
		return f.x, f.p, fmt.Errorf("%w: P_pred+R = %v", ErrDegenerateFilter, denom)
	}
	gain := pPred / denom

	f.x = xPred + gain*(measurement-xPred)
	f.p = (1 - gain) * pPred
	return f.x, f.p, nil
}

// Reset reinitializes the estimate and covariance. Outside PredictUpdate it
// is the only way the state changes; the engine uses it at stint boundaries.
func (f *Filter) Reset(estimate, covariance float64) {
	f.x = estimate
	f.p = covariance
}

// State returns the current estimate and covariance without advancing the
// filter.
func (f *Filter) State() (estimate, covariance float64) {
	return f.x, f.p
}
