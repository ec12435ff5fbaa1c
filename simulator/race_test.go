package simulator

import (
	"testing"

	"github.com/kilianp07/pitwall/core/model"
)

func TestRaceLapCountAndFuel(t *testing.T) {
	r := New(Config{Seed: 7, Laps: 10, FuelLaps: 10})

	var laps []Lap
	for {
		lap, ok := r.Next()
		if !ok {
			break
		}
		laps = append(laps, lap)
	}

	if len(laps) != 10 {
		t.Fatalf("expected 10 laps, got %d", len(laps))
	}
	for i, lap := range laps {
		if lap.Sample.Lap != i+1 {
			t.Errorf("lap %d: sample lap %d", i+1, lap.Sample.Lap)
		}
		if lap.Sample.DegradationDelta < 0 {
			t.Errorf("lap %d: negative delta %f", i+1, lap.Sample.DegradationDelta)
		}
	}
	if got := laps[len(laps)-1].FuelLaps; got != 0 {
		t.Errorf("fuel at the flag = %f, want 0", got)
	}
	if _, ok := r.Next(); ok {
		t.Error("Next returned a lap past the race distance")
	}
}

func TestRaceDeterministicForSeed(t *testing.T) {
	cfg := Config{Seed: 42, Laps: 20}
	a, b := New(cfg), New(cfg)

	for i := 0; i < 20; i++ {
		la, _ := a.Next()
		lb, _ := b.Next()
		if la != lb {
			t.Fatalf("lap %d diverged between identical seeds: %+v vs %+v", i+1, la, lb)
		}
	}

	c, _ := New(Config{Seed: 43, Laps: 20}).Next()
	first, _ := New(cfg).Next()
	if c.Sample.DegradationDelta == first.Sample.DegradationDelta {
		t.Error("different seeds produced the same first delta")
	}
}

func TestRacePitResetsTireAge(t *testing.T) {
	r := New(Config{Seed: 1, Laps: 30, Compound: model.CompoundSoft})
	for i := 0; i < 12; i++ {
		r.Next()
	}
	r.Pit(model.CompoundHard)

	lap, ok := r.Next()
	if !ok {
		t.Fatal("race ended early")
	}
	if lap.Sample.TireLife != 1 {
		t.Errorf("tire life after pit = %d, want 1", lap.Sample.TireLife)
	}
	if lap.Sample.StintNumber != 2 {
		t.Errorf("stint after pit = %d, want 2", lap.Sample.StintNumber)
	}
	if lap.Sample.Compound != model.CompoundHard {
		t.Errorf("compound after pit = %s, want HARD", lap.Sample.Compound)
	}
	if lap.Sample.Lap != 13 {
		t.Errorf("lap after pit = %d, want 13", lap.Sample.Lap)
	}
}

func TestRaceRainRaisesSlickWear(t *testing.T) {
	dry := New(Config{Seed: 5, Laps: 20, NoiseSigma: 0.0001, Compound: model.CompoundMedium})
	wet := New(Config{Seed: 5, Laps: 20, NoiseSigma: 0.0001, Compound: model.CompoundMedium, RainFromLap: 1})

	var dryLast, wetLast Lap
	for i := 0; i < 20; i++ {
		dryLast, _ = dry.Next()
		wetLast, _ = wet.Next()
	}
	if wetLast.Weather != model.WeatherWet {
		t.Fatalf("weather = %s, want WET", wetLast.Weather)
	}
	if wetLast.Sample.DegradationDelta <= dryLast.Sample.DegradationDelta {
		t.Errorf("wet delta %f not above dry delta %f",
			wetLast.Sample.DegradationDelta, dryLast.Sample.DegradationDelta)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero laps", Config{Laps: -1, StartPosition: 5}},
		{"bad position", Config{Laps: 10, StartPosition: 25}},
		{"negative wear", Config{Laps: 10, StartPosition: 5, BaseWear: -1}},
		{"negative rain lap", Config{Laps: 10, StartPosition: 5, RainFromLap: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
