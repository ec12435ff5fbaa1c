package stint

import (
	"math"
	"testing"

	"github.com/kilianp07/pitwall/core/model"
)

func newTestModel(c model.Compound) *Model {
	return NewModel(1, c, 10, nil)
}

func TestMaxLapsTable(t *testing.T) {
	m := newTestModel(model.CompoundSoft)
	want := map[model.Compound]int{
		model.CompoundSoft:         18,
		model.CompoundMedium:       28,
		model.CompoundHard:         40,
		model.CompoundIntermediate: 30,
		model.CompoundWet:          35,
		model.CompoundExtremeWet:   25,
	}
	for c, laps := range want {
		if got := m.MaxLaps(c); got != laps {
			t.Errorf("MaxLaps(%s) = %d, want %d", c, got, laps)
		}
	}
}

func TestMaxLapsUnknownCompoundFallsBack(t *testing.T) {
	m := newTestModel(model.CompoundSoft)
	if got := m.MaxLaps(model.Compound(99)); got != DefaultMaxLaps {
		t.Errorf("unknown compound lifetime = %d, want %d", got, DefaultMaxLaps)
	}
}

func TestDegradationMultiplierSteps(t *testing.T) {
	m := newTestModel(model.CompoundHard) // 40 lap lifetime
	cases := []struct {
		laps int
		want float64
	}{
		{0, 1.0},  // ratio 0
		{11, 1.0}, // ratio 0.275
		{12, 1.3}, // ratio 0.30
		{23, 1.3}, // ratio 0.575
		{24, 1.8}, // ratio 0.60
		{33, 1.8}, // ratio 0.825
		{34, 2.5}, // ratio 0.85
		{37, 2.5}, // ratio 0.925
		{38, 4.0}, // ratio 0.95
		{45, 4.0}, // past nominal life
	}
	for _, tc := range cases {
		if got := m.DegradationMultiplier(tc.laps, model.CompoundHard); got != tc.want {
			t.Errorf("multiplier at %d laps = %v, want %v", tc.laps, got, tc.want)
		}
	}
}

func TestDegradationMultiplierNonDecreasing(t *testing.T) {
	m := newTestModel(model.CompoundSoft)
	for _, c := range []model.Compound{model.CompoundSoft, model.CompoundMedium, model.CompoundHard, model.CompoundWet} {
		prev := 0.0
		for laps := 0; laps <= 60; laps++ {
			mult := m.DegradationMultiplier(laps, c)
			if mult < prev {
				t.Fatalf("%s: multiplier decreased at %d laps: %v < %v", c, laps, mult, prev)
			}
			prev = mult
		}
	}
}

func TestWearStatusSoftStint(t *testing.T) {
	m := newTestModel(model.CompoundSoft) // 18 lap lifetime
	cases := []struct {
		laps int
		want Status
	}{
		{3, StatusFresh},      // 0.167
		{9, StatusNormal},     // 0.50
		{14, StatusWarning},   // 0.778
		{17, StatusCritical},  // 0.944
		{18, StatusMandatory}, // 1.0
	}
	for _, tc := range cases {
		if got := m.WearStatus(tc.laps, model.CompoundSoft); got != tc.want {
			t.Errorf("status at %d laps = %s, want %s", tc.laps, got, tc.want)
		}
	}
}

func TestMandatoryPitImpliesMandatoryStatus(t *testing.T) {
	m := newTestModel(model.CompoundSoft)
	for _, c := range []model.Compound{model.CompoundSoft, model.CompoundMedium, model.CompoundHard} {
		for laps := 0; laps <= 60; laps++ {
			if m.IsMandatoryPit(laps, c) && m.WearStatus(laps, c) != StatusMandatory {
				t.Fatalf("%s at %d laps: mandatory pit without MANDATORY status", c, laps)
			}
		}
	}
	if m.IsMandatoryPit(17, model.CompoundSoft) {
		t.Error("17/18 laps flagged mandatory")
	}
	if !m.IsMandatoryPit(18, model.CompoundSoft) {
		t.Error("18/18 laps not flagged mandatory")
	}
}

func TestStintLifecycle(t *testing.T) {
	m := newTestModel(model.CompoundSoft)
	cur := m.Current()
	if cur.Number != 1 || cur.StartLap != 1 || cur.Compound != model.CompoundSoft || cur.MaxExpectedLaps != 18 {
		t.Fatalf("unexpected opening stint: %+v", cur)
	}

	for _, d := range []float64{0.1, 0.2, 0.3} {
		m.RecordLap(d)
	}
	if got := m.Current().LapsCompleted; got != 3 {
		t.Fatalf("laps completed = %d, want 3", got)
	}
	if got := m.Current().AgeRatio(); math.Abs(got-3.0/18.0) > 1e-12 {
		t.Fatalf("age ratio = %v, want %v", got, 3.0/18.0)
	}

	if _, err := m.BeginStint(4, model.CompoundMedium, 8, model.WeatherDry); err == nil {
		t.Fatal("beginning a stint while one is open should fail")
	}

	archived := m.EndStint(4, 9, 0.42)
	if archived.EndLap != 4 || archived.EndPosition != 9 || archived.EndDegradation != 0.42 {
		t.Fatalf("archived stint: %+v", archived)
	}
	if math.Abs(archived.MeanDelta-0.2) > 1e-12 {
		t.Errorf("mean delta = %v, want 0.2", archived.MeanDelta)
	}
	if archived.StdDevDelta <= 0 {
		t.Errorf("stddev delta = %v, want > 0", archived.StdDevDelta)
	}

	next, err := m.BeginStint(4, model.CompoundMedium, 9, model.WeatherDry)
	if err != nil {
		t.Fatalf("begin stint: %v", err)
	}
	if next.Number != 2 || next.MaxExpectedLaps != 28 || next.LapsCompleted != 0 {
		t.Fatalf("second stint: %+v", next)
	}

	hist := m.History()
	if len(hist) != 1 || hist[0].Number != 1 {
		t.Fatalf("history: %+v", hist)
	}
	// The snapshot must be detached from internal state.
	hist[0].Number = 99
	if m.History()[0].Number != 1 {
		t.Error("history snapshot aliases internal storage")
	}
}
