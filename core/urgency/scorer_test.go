package urgency

import (
	"testing"

	"github.com/kilianp07/pitwall/core/model"
)

func TestScoreWornTireDominates(t *testing.T) {
	// Tire at 96% of nominal life but low cliff probability and plenty of
	// fuel: tire urgency alone must demand the stop.
	rep := NewScorer().Score(Input{
		TireAgeRatio:      0.96,
		CliffProb:         0.30,
		LapsFuelRemaining: 20,
		Position:          5,
		Weather:           model.WeatherDry,
		LapsSinceLastPit:  17,
	})
	if rep.TireUrgency != 10 {
		t.Errorf("tire urgency = %d, want 10", rep.TireUrgency)
	}
	if !rep.ShouldPit {
		t.Error("shouldPit = false, want true")
	}
	if rep.TotalUrgency < 5 {
		t.Errorf("total urgency = %d, want >= 5", rep.TotalUrgency)
	}
	if len(rep.Reasons) == 0 {
		t.Error("no reasons recorded for a fired rule")
	}
}

func TestScoreTireAgeBands(t *testing.T) {
	cases := []struct {
		age       float64
		want      int
		shouldPit bool
	}{
		{0.96, 10, true},
		{0.87, 9, true},
		{0.78, 7, false},
		{0.65, 4, false},
	}
	for _, tc := range cases {
		rep := NewScorer().Score(Input{TireAgeRatio: tc.age, LapsFuelRemaining: 30, Position: 3})
		if rep.TireUrgency != tc.want {
			t.Errorf("age %v: tire urgency = %d, want %d", tc.age, rep.TireUrgency, tc.want)
		}
		if rep.ShouldPit != tc.shouldPit {
			t.Errorf("age %v: shouldPit = %v, want %v", tc.age, rep.ShouldPit, tc.shouldPit)
		}
	}
}

func TestScoreFreshTireDerivedFromCliff(t *testing.T) {
	rep := NewScorer().Score(Input{TireAgeRatio: 0.10, CliffProb: 0.40, LapsFuelRemaining: 30, Position: 3})
	if rep.TireUrgency != 2 { // round(0.40*5)
		t.Errorf("tire urgency = %d, want 2", rep.TireUrgency)
	}
	if rep.ShouldPit {
		t.Error("fresh tire with moderate cliff should not demand a stop")
	}
}

func TestScoreCliffOverlayTakesMax(t *testing.T) {
	cases := []struct {
		cliff     float64
		minTire   int
		shouldPit bool
	}{
		{0.80, 10, true},
		{0.70, 7, false},
		{0.55, 4, false},
	}
	for _, tc := range cases {
		rep := NewScorer().Score(Input{TireAgeRatio: 0.10, CliffProb: tc.cliff, LapsFuelRemaining: 30, Position: 3})
		if rep.TireUrgency < tc.minTire {
			t.Errorf("cliff %v: tire urgency = %d, want >= %d", tc.cliff, rep.TireUrgency, tc.minTire)
		}
		if rep.ShouldPit != tc.shouldPit {
			t.Errorf("cliff %v: shouldPit = %v, want %v", tc.cliff, rep.ShouldPit, tc.shouldPit)
		}
	}
	// Max, never sum: a worn tire under a high cliff stays capped at 10.
	rep := NewScorer().Score(Input{TireAgeRatio: 0.96, CliffProb: 0.90, LapsFuelRemaining: 30, Position: 3})
	if rep.TireUrgency != 10 {
		t.Errorf("tire urgency = %d, want 10 (max across rules, not a sum)", rep.TireUrgency)
	}
}

func TestScoreFuelRunway(t *testing.T) {
	rep := NewScorer().Score(Input{LapsFuelRemaining: 3, Position: 3})
	if rep.FuelUrgency != 10 || !rep.ShouldPit {
		t.Errorf("3 laps of fuel: urgency %d shouldPit %v, want 10/true", rep.FuelUrgency, rep.ShouldPit)
	}
	rep = NewScorer().Score(Input{LapsFuelRemaining: 8, Position: 3})
	if rep.FuelUrgency != 6 || rep.ShouldPit {
		t.Errorf("8 laps of fuel: urgency %d shouldPit %v, want 6/false", rep.FuelUrgency, rep.ShouldPit)
	}
	rep = NewScorer().Score(Input{LapsFuelRemaining: 25, Position: 3})
	if rep.FuelUrgency != 1 {
		t.Errorf("25 laps of fuel: urgency %d, want 1", rep.FuelUrgency)
	}
}

func TestScoreStrategy(t *testing.T) {
	// Back of the field, degrading tires, long stint: nothing to lose.
	rep := NewScorer().Score(Input{
		TireAgeRatio: 0.55, CliffProb: 0.55, LapsFuelRemaining: 30,
		Position: 14, LapsSinceLastPit: 18, Weather: model.WeatherDry,
	})
	if rep.StrategyUrgency != 6 {
		t.Errorf("strategy urgency = %d, want 6", rep.StrategyUrgency)
	}

	rep = NewScorer().Score(Input{LapsFuelRemaining: 30, Position: 3, Weather: model.WeatherIntermediate})
	if rep.StrategyUrgency != 5 {
		t.Errorf("intermediate weather strategy urgency = %d, want 5", rep.StrategyUrgency)
	}

	rep = NewScorer().Score(Input{LapsFuelRemaining: 30, Position: 3, Weather: model.WeatherDry})
	if rep.StrategyUrgency != 1 {
		t.Errorf("quiet race strategy urgency = %d, want 1", rep.StrategyUrgency)
	}
}

func TestScoreTotalBounds(t *testing.T) {
	// Everything on fire at once still stays within [0,10].
	rep := NewScorer().Score(Input{
		TireAgeRatio: 1.2, CliffProb: 0.99, LapsFuelRemaining: 1,
		Position: 18, LapsSinceLastPit: 30, Weather: model.WeatherWet,
	})
	if rep.TotalUrgency < 0 || rep.TotalUrgency > 10 {
		t.Fatalf("total urgency %d outside [0,10]", rep.TotalUrgency)
	}
	// tire 10 * 1.5 + fuel 10 + strategy 6 = 31; 31/3.5 rounds to 9.
	if rep.TotalUrgency != 9 {
		t.Errorf("total urgency = %d, want 9", rep.TotalUrgency)
	}
}

func TestScoreReportIsFresh(t *testing.T) {
	s := NewScorer()
	in := Input{TireAgeRatio: 0.90, CliffProb: 0.60, LapsFuelRemaining: 8, Position: 12, LapsSinceLastPit: 16}
	a := s.Score(in)
	b := s.Score(in)
	if a.TotalUrgency != b.TotalUrgency || a.ShouldPit != b.ShouldPit || len(a.Reasons) != len(b.Reasons) {
		t.Fatalf("score not reproducible: %+v vs %+v", a, b)
	}
}
