// Package urgency combines tire age, cliff probability, fuel runway and
// strategic context into bounded [0,10] urgency scores.
package urgency

import (
	"fmt"
	"math"

	"github.com/kilianp07/pitwall/core/model"
)

// Input carries the per-tick signals the scorer evaluates.
type Input struct {
	TireAgeRatio      float64
	CliffProb         float64
	LapsFuelRemaining float64
	Position          int
	Weather           model.Weather
	LapsSinceLastPit  int
}

// Scorer weighs the sub-scores into a composite. Each sub-score takes the
// maximum across its triggering rules, never a sum, so the same underlying
// risk is not double-counted.
type Scorer struct {
	TireWeight     float64
	FuelWeight     float64
	StrategyWeight float64
}

// NewScorer returns a scorer with default weights. The 1.5x tire weight
// encodes that tire failure risk dominates fuel and strategic considerations.
func NewScorer() Scorer {
	return Scorer{
		TireWeight:     1.5,
		FuelWeight:     1.0,
		StrategyWeight: 1.0,
	}
}

// Score evaluates every rule independently and returns a fresh report.
func (s Scorer) Score(in Input) model.UrgencyReport {
	var rep model.UrgencyReport

	rep.TireUrgency = s.tireUrgency(in, &rep)
	rep.FuelUrgency = s.fuelUrgency(in, &rep)
	rep.StrategyUrgency = s.strategyUrgency(in, &rep)

	sumW := s.TireWeight + s.FuelWeight + s.StrategyWeight
	total := (float64(rep.TireUrgency)*s.TireWeight +
		float64(rep.FuelUrgency)*s.FuelWeight +
		float64(rep.StrategyUrgency)*s.StrategyWeight) / sumW
	rep.TotalUrgency = clampScore(int(math.Round(total)))
	return rep
}

func (s Scorer) tireUrgency(in Input, rep *model.UrgencyReport) int {
	var score int
	switch {
	case in.TireAgeRatio >= 0.95:
		score = 10
		rep.ShouldPit = true
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("tire at %.0f%% of nominal life", in.TireAgeRatio*100))
	case in.TireAgeRatio >= 0.85:
		score = 9
		rep.ShouldPit = true
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("tire at %.0f%% of nominal life", in.TireAgeRatio*100))
	case in.TireAgeRatio >= 0.75:
		score = 7
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("tire at %.0f%% of nominal life", in.TireAgeRatio*100))
	case in.TireAgeRatio >= 0.60:
		score = 4
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("tire at %.0f%% of nominal life", in.TireAgeRatio*100))
	default:
		score = clampScore(int(math.Round(in.CliffProb * 5)))
	}

	switch {
	case in.CliffProb > 0.75:
		score = max(score, 10)
		rep.ShouldPit = true
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("cliff probability %.0f%%", in.CliffProb*100))
	case in.CliffProb > 0.65:
		score = max(score, 7)
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("cliff probability %.0f%%", in.CliffProb*100))
	case in.CliffProb > 0.50:
		score = max(score, 4)
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("cliff probability %.0f%%", in.CliffProb*100))
	}
	return score
}

func (s Scorer) fuelUrgency(in Input, rep *model.UrgencyReport) int {
	switch {
	case in.LapsFuelRemaining < 5:
		rep.ShouldPit = true
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("%.1f laps of fuel remaining", in.LapsFuelRemaining))
		return 10
	case in.LapsFuelRemaining < 10:
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("%.1f laps of fuel remaining", in.LapsFuelRemaining))
		return 6
	default:
		return 1
	}
}

func (s Scorer) strategyUrgency(in Input, rep *model.UrgencyReport) int {
	switch {
	case in.Position > 10 && in.CliffProb > 0.50 && in.LapsSinceLastPit > 15:
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("P%d on %d-lap-old tires, little to lose", in.Position, in.LapsSinceLastPit))
		return 6
	case in.Weather.IsWet():
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("%s conditions", in.Weather))
		return 5
	default:
		return 1
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
