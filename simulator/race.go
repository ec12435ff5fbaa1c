// Package simulator generates synthetic race telemetry for exercising the
// strategy engine without a session export or a live feed. Lap deltas follow
// a linear true-wear curve with seeded gaussian noise on top; the cliff
// behavior itself is left to the consumer's models.
package simulator

import (
	"gonum.org/v1/gonum/stat/distuv"
	xrand "golang.org/x/exp/rand"

	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/infra/telemetry"
)

// Lap is one simulated lap: the telemetry sample plus the race context the
// sample source cannot carry.
type Lap struct {
	Sample   telemetry.LapSample
	Position int
	FuelLaps float64
	Weather  model.Weather
}

// Race produces laps one at a time. It is not safe for concurrent use.
type Race struct {
	cfg   Config
	noise distuv.Normal

	lap        int
	stint      int
	lapsOnTire int
	position   int
	compound   model.Compound
	fuel       float64
}

func New(cfg Config) *Race {
	cfg.SetDefaults()
	return &Race{
		cfg: cfg,
		noise: distuv.Normal{
			Mu:    0,
			Sigma: cfg.NoiseSigma,
			Src:   xrand.NewSource(cfg.Seed),
		},
		stint:    1,
		position: cfg.StartPosition,
		compound: cfg.Compound,
		fuel:     cfg.FuelLaps,
	}
}

// Next advances the session by one lap. The second return is false once the
// race distance has been covered.
func (r *Race) Next() (Lap, bool) {
	if r.lap >= r.cfg.Laps {
		return Lap{}, false
	}
	r.lap++
	r.lapsOnTire++
	r.fuel--
	if r.fuel < 0 {
		r.fuel = 0
	}

	weather := model.WeatherDry
	if r.cfg.RainFromLap > 0 && r.lap >= r.cfg.RainFromLap {
		weather = model.WeatherWet
	}

	wear := r.cfg.BaseWear * float64(r.lapsOnTire)
	if weather.IsWet() && !r.compound.IsRainCompound() {
		// Slicks on a wet track shed performance much faster.
		wear *= 2
	}
	delta := wear + r.noise.Rand()
	if delta < 0 {
		delta = 0
	}

	// Deterministic position churn: slow drift forward, one place lost
	// mid-race to keep the strategy score honest.
	if r.lap%7 == 0 && r.position > 1 {
		r.position--
	}
	if r.lap == r.cfg.Laps/2 && r.position < model.GridSize {
		r.position++
	}

	return Lap{
		Sample: telemetry.LapSample{
			Lap:              r.lap,
			StintNumber:      r.stint,
			Compound:         r.compound,
			TireLife:         r.lapsOnTire,
			TrackTemp:        28.0,
			LapTimeSec:       90.0 + delta,
			DegradationDelta: delta,
		},
		Position: r.position,
		FuelLaps: r.fuel,
		Weather:  weather,
	}, true
}

// Pit fits the given compound before the next lap. Tire age restarts from
// zero; the lap counter does not.
func (r *Race) Pit(compound model.Compound) {
	r.stint++
	r.lapsOnTire = 0
	r.compound = compound
}

func (r *Race) CurrentLap() int { return r.lap }
