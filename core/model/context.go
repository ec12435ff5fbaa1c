package model

import (
	"fmt"
	"math"
)

// GridSize bounds the valid range of race positions.
const GridSize = 20

// TickContext carries the per-lap inputs supplied by the host collaborators:
// lap counter, position tracker, fuel integrator and weather classifier.
type TickContext struct {
	Lap               int
	Position          int
	LapsFuelRemaining float64
	Weather           Weather
	Compound          Compound
}

// Validate checks that the context is within the ranges the engine accepts.
func (c TickContext) Validate() error {
	if c.Lap < 1 {
		return fmt.Errorf("lap must be >= 1, got %d", c.Lap)
	}
	if c.Position < 1 || c.Position > GridSize {
		return fmt.Errorf("position must be in [1,%d], got %d", GridSize, c.Position)
	}
	if math.IsNaN(c.LapsFuelRemaining) || math.IsInf(c.LapsFuelRemaining, 0) || c.LapsFuelRemaining < 0 {
		return fmt.Errorf("laps of fuel remaining must be a non-negative finite number, got %v", c.LapsFuelRemaining)
	}
	return nil
}
