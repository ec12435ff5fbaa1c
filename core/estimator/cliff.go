package estimator

import (
	"fmt"
	"math"
)

// Default cliff model parameters, matching the baseline tuning.
const (
	DefaultCliffThreshold = 0.60
	DefaultCliffSteepness = 15.0
)

// CliffModel maps a smoothed degradation estimate to the probability of
// hitting the tire cliff, the point of rapid grip loss near end of life.
// Threshold and steepness must stay fixed for the life of a run: changing
// them mid-run invalidates probability comparability across ticks.
type CliffModel struct {
	Threshold float64 `json:"threshold"`
	Steepness float64 `json:"steepness"`
}

// DefaultCliffModel returns the baseline cliff tuning.
func DefaultCliffModel() CliffModel {
	return CliffModel{Threshold: DefaultCliffThreshold, Steepness: DefaultCliffSteepness}
}

// Validate rejects tunings that would produce meaningless probabilities.
func (m CliffModel) Validate() error {
	if math.IsNaN(m.Threshold) || math.IsInf(m.Threshold, 0) {
		return fmt.Errorf("cliff threshold must be finite, got %v", m.Threshold)
	}
	if math.IsNaN(m.Steepness) || math.IsInf(m.Steepness, 0) || m.Steepness <= 0 {
		return fmt.Errorf("cliff steepness must be a positive finite number, got %v", m.Steepness)
	}
	return nil
}

// Probability returns the cliff probability for the given estimate.
func (m CliffModel) Probability(estimate float64) float64 {
	return CliffProbability(estimate, m.Threshold, m.Steepness)
}

// CliffProbability is the pure logistic mapping from degradation state to
// failure probability. It is strictly increasing in x and equals 0.5 exactly
// when x matches the threshold.
func CliffProbability(x, threshold, steepness float64) float64 {
	return 1.0 / (1.0 + math.Exp(-steepness*(x-threshold)))
}
