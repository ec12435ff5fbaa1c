package model

import "fmt"

// Weather is the discrete track condition reported by the external
// weather/grip classifier. The engine never classifies weather itself.
type Weather int

const (
	WeatherDry Weather = iota
	WeatherDamp
	WeatherIntermediate
	WeatherWet
)

// String returns a human-readable representation of the condition.
func (w Weather) String() string {
	switch w {
	case WeatherDry:
		return "DRY"
	case WeatherDamp:
		return "DAMP"
	case WeatherIntermediate:
		return "INTERMEDIATE"
	case WeatherWet:
		return "WET"
	default:
		return "unknown"
	}
}

// GripFactor returns the degradation multiplier the classifier associates
// with the condition. Dry is neutral so dry-running behaviour is unaffected.
func (w Weather) GripFactor() float64 {
	switch w {
	case WeatherDamp:
		return 1.1
	case WeatherIntermediate:
		return 1.25
	case WeatherWet:
		return 1.4
	default:
		return 1.0
	}
}

// IsWet reports whether the condition calls for a rain compound.
func (w Weather) IsWet() bool {
	return w == WeatherIntermediate || w == WeatherWet
}

// ParseWeather converts a condition name from configuration or telemetry.
func ParseWeather(s string) (Weather, error) {
	switch s {
	case "DRY":
		return WeatherDry, nil
	case "DAMP":
		return WeatherDamp, nil
	case "INTERMEDIATE":
		return WeatherIntermediate, nil
	case "WET":
		return WeatherWet, nil
	default:
		return 0, fmt.Errorf("unknown weather condition %q", s)
	}
}
