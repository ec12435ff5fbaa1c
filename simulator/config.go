package simulator

import (
	"fmt"

	"github.com/kilianp07/pitwall/core/model"
)

// Config drives a synthetic race session. Every run with the same Config is
// bit-identical, which keeps the simulate command reproducible.
type Config struct {
	Seed          uint64         `json:"seed"`
	Laps          int            `json:"laps"`
	Compound      model.Compound `json:"-"`
	StartPosition int            `json:"start_position"`
	FuelLaps      float64        `json:"fuel_laps"`

	// BaseWear is the seconds of degradation added per lap of tire age on a
	// dry track. NoiseSigma is the standard deviation of the gaussian lap
	// noise layered on top.
	BaseWear   float64 `json:"base_wear"`
	NoiseSigma float64 `json:"noise_sigma"`

	// RainFromLap switches the session to wet from that lap onward.
	// Zero means dry throughout.
	RainFromLap int `json:"rain_from_lap"`
}

func (c *Config) SetDefaults() {
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.Laps == 0 {
		c.Laps = 44
	}
	if !c.Compound.Known() {
		c.Compound = model.CompoundMedium
	}
	if c.StartPosition == 0 {
		c.StartPosition = 10
	}
	if c.FuelLaps == 0 {
		c.FuelLaps = float64(c.Laps)
	}
	if c.BaseWear == 0 {
		c.BaseWear = 0.05
	}
	if c.NoiseSigma == 0 {
		c.NoiseSigma = 0.08
	}
}

func (c Config) Validate() error {
	if c.Laps <= 0 {
		return fmt.Errorf("simulator: laps must be positive, got %d", c.Laps)
	}
	if c.StartPosition < 1 || c.StartPosition > model.GridSize {
		return fmt.Errorf("simulator: start position %d outside grid [1, %d]", c.StartPosition, model.GridSize)
	}
	if c.BaseWear < 0 || c.NoiseSigma < 0 {
		return fmt.Errorf("simulator: base wear and noise sigma must be non-negative")
	}
	if c.RainFromLap < 0 {
		return fmt.Errorf("simulator: rain_from_lap must be non-negative, got %d", c.RainFromLap)
	}
	return nil
}
