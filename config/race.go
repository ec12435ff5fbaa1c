package config

import (
	"fmt"

	"github.com/kilianp07/pitwall/core/model"
)

// RaceConfig describes the race the host loop runs: total distance, starting
// state and the simple fuel model owned by the host, not the engine.
type RaceConfig struct {
	// Laps is the race distance.
	Laps int `json:"laps"`
	// Compound is the starting tire compound.
	Compound string `json:"compound"`
	// StartPosition is the grid slot at lights out.
	StartPosition int `json:"start_position"`
	// FuelLaps is the fuel on board at the start, in laps.
	FuelLaps float64 `json:"fuel_laps"`
	// Weather is the condition at lights out.
	Weather string `json:"weather"`
}

// SetDefaults applies sane defaults.
func (c *RaceConfig) SetDefaults() {
	if c.Laps == 0 {
		c.Laps = 44
	}
	if c.Compound == "" {
		c.Compound = "MEDIUM"
	}
	if c.StartPosition == 0 {
		c.StartPosition = 10
	}
	if c.FuelLaps == 0 {
		c.FuelLaps = float64(c.Laps)
	}
	if c.Weather == "" {
		c.Weather = "DRY"
	}
}

// Validate checks mandatory fields.
func (c RaceConfig) Validate() error {
	if c.Laps < 1 {
		return fmt.Errorf("race laps must be positive, got %d", c.Laps)
	}
	if c.StartPosition < 1 || c.StartPosition > model.GridSize {
		return fmt.Errorf("start position must be in [1,%d], got %d", model.GridSize, c.StartPosition)
	}
	if _, err := model.ParseCompound(c.Compound); err != nil {
		return err
	}
	if _, err := model.ParseWeather(c.Weather); err != nil {
		return err
	}
	if c.FuelLaps <= 0 {
		return fmt.Errorf("fuel laps must be positive, got %v", c.FuelLaps)
	}
	return nil
}

// StartCompound returns the parsed starting compound. Call Validate first.
func (c RaceConfig) StartCompound() model.Compound {
	compound, _ := model.ParseCompound(c.Compound)
	return compound
}

// StartWeather returns the parsed starting condition. Call Validate first.
func (c RaceConfig) StartWeather() model.Weather {
	weather, _ := model.ParseWeather(c.Weather)
	return weather
}
