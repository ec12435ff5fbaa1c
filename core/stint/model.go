// Package stint owns the tire-compound lifetime tables, the age-based
// degradation multiplier and the stint lifecycle. The multiplier is the
// physical side of the cliff effect, deterministic from tire age alone; the
// statistical smoothing lives in the estimator so tests can hold one fixed
// while varying the other.
package stint

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/pitwall/core/logger"
	"github.com/kilianp07/pitwall/core/model"
)

// DefaultMaxLaps is the lifetime assumed for compounds missing from the
// table. The table is closed-world in practice, but an unrecognized value
// must degrade gracefully rather than panic.
const DefaultMaxLaps = 20

var maxLapsTable = map[model.Compound]int{
	model.CompoundSoft:         18,
	model.CompoundMedium:       28,
	model.CompoundHard:         40,
	model.CompoundIntermediate: 30,
	model.CompoundWet:          35,
	model.CompoundExtremeWet:   25,
}

// multiplierSteps maps age-ratio bands to the factor applied to raw
// measurements before they reach the filter. Degradation accelerates
// non-linearly near end of life regardless of what the filter infers.
var multiplierSteps = []struct {
	below  float64
	factor float64
}{
	{0.30, 1.0},
	{0.60, 1.3},
	{0.85, 1.8},
	{0.95, 2.5},
}

const endOfLifeMultiplier = 4.0

// Status classifies tire wear by age ratio.
type Status int

const (
	StatusFresh Status = iota
	StatusNormal
	StatusWarning
	StatusCritical
	StatusMandatory
)

// String returns a human-readable representation of the wear status.
func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "FRESH"
	case StatusNormal:
		return "NORMAL"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	case StatusMandatory:
		return "MANDATORY"
	default:
		return "unknown"
	}
}

// mandatoryPitRatio is the safety net independent of the probabilistic
// model: at or beyond this age ratio the tire must come off.
const mandatoryPitRatio = 0.99

// Model tracks the current stint and the archive of completed ones.
type Model struct {
	log     logger.Logger
	current model.Stint
	history []model.Stint
	deltas  []float64 // scaled per-lap deltas of the current stint
}

// NewModel opens the first stint of the run.
func NewModel(lap int, compound model.Compound, startPosition int, log logger.Logger) *Model {
	if log == nil {
		log = logger.Nop{}
	}
	m := &Model{log: log}
	m.open(1, lap, compound, startPosition)
	return m
}

// MaxLaps returns the nominal lifetime for the compound, falling back to
// DefaultMaxLaps for unrecognized values.
func (m *Model) MaxLaps(compound model.Compound) int {
	if laps, ok := maxLapsTable[compound]; ok {
		return laps
	}
	m.log.Warnf("unknown compound %d, assuming %d lap lifetime", int(compound), DefaultMaxLaps)
	return DefaultMaxLaps
}

// AgeRatio returns lapsOnTire over the compound's nominal lifetime.
func (m *Model) AgeRatio(lapsOnTire int, compound model.Compound) float64 {
	return float64(lapsOnTire) / float64(m.MaxLaps(compound))
}

// DegradationMultiplier returns the factor that scales a raw measurement for
// the given tire age. It is a non-decreasing step function of the age ratio.
func (m *Model) DegradationMultiplier(lapsOnTire int, compound model.Compound) float64 {
	ratio := m.AgeRatio(lapsOnTire, compound)
	for _, step := range multiplierSteps {
		if ratio < step.below {
			return step.factor
		}
	}
	return endOfLifeMultiplier
}

// WearStatus classifies the tire at the given age.
func (m *Model) WearStatus(lapsOnTire int, compound model.Compound) Status {
	ratio := m.AgeRatio(lapsOnTire, compound)
	switch {
	case ratio < 0.50:
		return StatusFresh
	case ratio < 0.75:
		return StatusNormal
	case ratio < 0.85:
		return StatusWarning
	case ratio < 0.95:
		return StatusCritical
	default:
		return StatusMandatory
	}
}

// IsMandatoryPit reports whether the tire has reached the hard age limit.
// The check runs before any other decision logic and short-circuits the
// recommendation regardless of cliff probability.
func (m *Model) IsMandatoryPit(lapsOnTire int, compound model.Compound) bool {
	return m.AgeRatio(lapsOnTire, compound) >= mandatoryPitRatio
}

// BeginStint opens a new stint. The previous stint must have been closed
// with EndStint first.
func (m *Model) BeginStint(lap int, compound model.Compound, startPosition int, weather model.Weather) (model.Stint, error) {
	if m.current.Number != 0 {
		return model.Stint{}, fmt.Errorf("stint %d still open, end it before beginning a new one", m.current.Number)
	}
	if compound.Known() && weather.IsWet() != compound.IsRainCompound() {
		m.log.Warnf("%s fitted in %s conditions", compound, weather)
	}
	m.open(len(m.history)+1, lap, compound, startPosition)
	return m.current, nil
}

func (m *Model) open(number, lap int, compound model.Compound, startPosition int) {
	m.current = model.Stint{
		Number:          number,
		StartLap:        lap,
		Compound:        compound,
		StartPosition:   startPosition,
		MaxExpectedLaps: m.MaxLaps(compound),
	}
	m.deltas = m.deltas[:0]
}

// EndStint archives the current stint with its closing lap, position and the
// smoothed degradation at the stop. The archive is append-only, ordered by
// stint number.
func (m *Model) EndStint(lap, endPosition int, endDegradation float64) model.Stint {
	s := m.current
	s.EndLap = lap
	s.EndPosition = endPosition
	s.EndDegradation = endDegradation
	if len(m.deltas) > 0 {
		s.MeanDelta = stat.Mean(m.deltas, nil)
		if len(m.deltas) > 1 {
			s.StdDevDelta = stat.StdDev(m.deltas, nil)
		}
	}
	m.history = append(m.history, s)
	m.current = model.Stint{}
	m.deltas = nil
	return s
}

// RecordLap counts one completed lap on the current tire set and retains the
// scaled delta for end-of-stint statistics.
func (m *Model) RecordLap(scaledDelta float64) {
	m.current.LapsCompleted++
	m.deltas = append(m.deltas, scaledDelta)
}

// Current returns a copy of the current stint.
func (m *Model) Current() model.Stint {
	return m.current
}

// History returns a read-only snapshot of the archived stints.
func (m *Model) History() []model.Stint {
	out := make([]model.Stint, len(m.history))
	copy(out, m.history)
	return out
}
