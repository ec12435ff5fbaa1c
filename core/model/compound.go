package model

import "fmt"

// Compound identifies a tire compound.
type Compound int

const (
	CompoundSoft Compound = iota
	CompoundMedium
	CompoundHard
	CompoundIntermediate
	CompoundWet
	CompoundExtremeWet
)

// String returns a human-readable representation of the compound.
func (c Compound) String() string {
	switch c {
	case CompoundSoft:
		return "SOFT"
	case CompoundMedium:
		return "MEDIUM"
	case CompoundHard:
		return "HARD"
	case CompoundIntermediate:
		return "INTERMEDIATE"
	case CompoundWet:
		return "WET"
	case CompoundExtremeWet:
		return "EXTREME_WET"
	default:
		return "unknown"
	}
}

// Known reports whether the compound is one of the defined values. Unknown
// compounds are not an error: lifetime lookups fall back to a default.
func (c Compound) Known() bool {
	return c >= CompoundSoft && c <= CompoundExtremeWet
}

// IsRainCompound reports whether the compound is meant for a wet track.
func (c Compound) IsRainCompound() bool {
	return c == CompoundIntermediate || c == CompoundWet || c == CompoundExtremeWet
}

// ParseCompound converts a compound name as found in telemetry exports.
func ParseCompound(s string) (Compound, error) {
	switch s {
	case "SOFT":
		return CompoundSoft, nil
	case "MEDIUM":
		return CompoundMedium, nil
	case "HARD":
		return CompoundHard, nil
	case "INTERMEDIATE":
		return CompoundIntermediate, nil
	case "WET":
		return CompoundWet, nil
	case "EXTREME_WET":
		return CompoundExtremeWet, nil
	default:
		return 0, fmt.Errorf("unknown compound %q", s)
	}
}
