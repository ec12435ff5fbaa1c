// Package engine orchestrates the per-tick chain: stint model, Kalman
// filter, cliff model and urgency scorer, closed by the decision ladder.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/kilianp07/pitwall/core/estimator"
	"github.com/kilianp07/pitwall/core/events"
	"github.com/kilianp07/pitwall/core/logger"
	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/core/stint"
	"github.com/kilianp07/pitwall/core/urgency"
	"github.com/kilianp07/pitwall/internal/eventbus"
)

// ErrInvalidInput signals an out-of-range tick input. The tick is skipped
// and the engine state is preserved unchanged; the caller may continue.
var ErrInvalidInput = errors.New("invalid input")

// Decision ladder thresholds over cliff probability.
const (
	pitNowProb    = 0.75
	pitSoonProb   = 0.65
	considerProb  = 0.50
	considerStint = 20 // minimum laps since the last stop for CONSIDER_PIT
)

// Config carries the filter and cliff tuning fixed for the life of a run.
type Config struct {
	Filter estimator.Config     `json:"filter"`
	Cliff  estimator.CliffModel `json:"cliff"`
}

// SetDefaults applies the baseline tuning where unset.
func (c *Config) SetDefaults() {
	c.Filter.SetDefaults()
	if c.Cliff.Threshold == 0 && c.Cliff.Steepness == 0 {
		c.Cliff = estimator.DefaultCliffModel()
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := c.Cliff.Validate(); err != nil {
		return fmt.Errorf("cliff: %w", err)
	}
	return nil
}

// StartConditions describe the state of the car when the engine is created.
type StartConditions struct {
	Lap      int
	Compound model.Compound
	Position int
	Weather  model.Weather
}

// Validate checks the starting state.
func (s StartConditions) Validate() error {
	if s.Lap < 1 {
		return fmt.Errorf("start lap must be >= 1, got %d", s.Lap)
	}
	if s.Position < 1 || s.Position > model.GridSize {
		return fmt.Errorf("start position must be in [1,%d], got %d", model.GridSize, s.Position)
	}
	return nil
}

// Engine owns one car's filter state and stint lifecycle. It performs no
// I/O, never blocks and holds no hidden randomness: identical inputs from
// identical state produce identical decisions. Model multiple cars with one
// engine instance each; instances share nothing.
type Engine struct {
	runID   string
	cfg     Config
	filter  *estimator.Filter
	cliff   estimator.CliffModel
	stints  *stint.Model
	scorer  urgency.Scorer
	log     logger.Logger
	bus     eventbus.EventBus
	lastLap int
}

// New builds an engine and opens the first stint. A nil logger disables
// logging; a nil bus disables event publication.
func New(cfg Config, start StartConditions, log logger.Logger, bus eventbus.EventBus) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	f, err := estimator.New(cfg.Filter)
	if err != nil {
		return nil, err
	}
	return &Engine{
		runID:   uuid.NewString(),
		cfg:     cfg,
		filter:  f,
		cliff:   cfg.Cliff,
		stints:  stint.NewModel(start.Lap, start.Compound, start.Position, log),
		scorer:  urgency.NewScorer(),
		log:     log,
		bus:     bus,
		lastLap: start.Lap - 1,
	}, nil
}

// RunID identifies this engine instance in events and metric records.
func (e *Engine) RunID() string { return e.runID }

// Tick processes one lap: the raw degradation delta is scaled by the
// stint-age multiplier and the weather grip factor, smoothed by the filter,
// mapped to a cliff probability, scored for urgency and pushed through the
// decision ladder. Either the tick fully succeeds and filter and stint are
// both updated, or it fails and both are left exactly as before.
//
// Laps must be ticked in strictly increasing order. A gap in lap numbers is
// accepted with a warning: the filter still advances a single wear-rate
// interval, which biases the estimate low until measurements catch up.
func (e *Engine) Tick(rawDelta float64, tc model.TickContext) (model.Decision, error) {
	if math.IsNaN(rawDelta) || math.IsInf(rawDelta, 0) {
		return model.Decision{}, fmt.Errorf("%w: raw measurement must be finite, got %v", ErrInvalidInput, rawDelta)
	}
	if err := tc.Validate(); err != nil {
		return model.Decision{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cur := e.stints.Current()
	if tc.Compound != cur.Compound {
		return model.Decision{}, fmt.Errorf("%w: context compound %s does not match current stint compound %s",
			ErrInvalidInput, tc.Compound, cur.Compound)
	}
	if tc.Lap <= e.lastLap {
		return model.Decision{}, fmt.Errorf("%w: lap %d not after last processed lap %d", ErrInvalidInput, tc.Lap, e.lastLap)
	}
	if tc.Lap > e.lastLap+1 {
		e.log.Warnf("lap gap %d -> %d, estimate will lag until measurements catch up", e.lastLap, tc.Lap)
	}

	lapsOnTire := cur.LapsCompleted + 1
	mandatory := e.stints.IsMandatoryPit(lapsOnTire, tc.Compound)
	scaled := rawDelta * e.stints.DegradationMultiplier(lapsOnTire, tc.Compound) * tc.Weather.GripFactor()

	prevEst, prevCov := e.filter.State()
	est, cov, err := e.filter.PredictUpdate(scaled)
	if err != nil {
		return model.Decision{}, err
	}
	prob := e.cliff.Probability(est)
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		// Never clamp: a probability outside [0,1] means the cliff model is
		// misconfigured and clamping would mask it.
		e.filter.Reset(prevEst, prevCov)
		return model.Decision{}, fmt.Errorf("%w: cliff probability %v outside [0,1]", ErrInvalidInput, prob)
	}

	e.stints.RecordLap(scaled)
	ageRatio := e.stints.AgeRatio(lapsOnTire, tc.Compound)
	report := e.scorer.Score(urgency.Input{
		TireAgeRatio:      ageRatio,
		CliffProb:         prob,
		LapsFuelRemaining: tc.LapsFuelRemaining,
		Position:          tc.Position,
		Weather:           tc.Weather,
		LapsSinceLastPit:  lapsOnTire,
	})

	var rec model.Recommendation
	switch {
	case mandatory:
		rec = model.PitImmediately
	case prob >= pitNowProb:
		rec = model.PitImmediately
	case prob >= pitSoonProb:
		rec = model.PitSoon
	case lapsOnTire > considerStint && prob > considerProb:
		rec = model.ConsiderPit
	default:
		rec = model.StayOut
	}

	d := model.Decision{
		Recommendation:   rec,
		Urgency:          report,
		Mandatory:        mandatory,
		Estimate:         est,
		Covariance:       cov,
		CliffProbability: prob,
	}
	e.lastLap = tc.Lap

	e.log.Debugw("tick", map[string]any{
		"lap":        tc.Lap,
		"raw":        rawDelta,
		"scaled":     scaled,
		"estimate":   est,
		"cliff_prob": prob,
		"urgency":    report.TotalUrgency,
		"verdict":    rec.String(),
	})
	if e.bus != nil {
		if mandatory {
			e.bus.Publish(events.MandatoryStopEvent{RunID: e.runID, Lap: tc.Lap, AgeRatio: ageRatio})
		}
		e.bus.Publish(events.TickEvent{RunID: e.runID, Lap: tc.Lap, Decision: d})
	}
	return d, nil
}

// Pit closes the current stint and opens a new one on the given compound.
// The filter is reset to its initial priors; this and PredictUpdate are the
// only paths that change filter state.
func (e *Engine) Pit(newCompound model.Compound, newLap, newPosition int, weather model.Weather) (model.Stint, error) {
	if newLap < e.lastLap {
		return model.Stint{}, fmt.Errorf("%w: pit lap %d before last processed lap %d", ErrInvalidInput, newLap, e.lastLap)
	}
	if newPosition < 1 || newPosition > model.GridSize {
		return model.Stint{}, fmt.Errorf("%w: position must be in [1,%d], got %d", ErrInvalidInput, model.GridSize, newPosition)
	}

	est, _ := e.filter.State()
	archived := e.stints.EndStint(newLap, newPosition, est)
	e.filter.Reset(e.cfg.Filter.InitialEstimate, e.cfg.Filter.InitialCovariance)
	opened, err := e.stints.BeginStint(newLap, newCompound, newPosition, weather)
	if err != nil {
		return model.Stint{}, err
	}

	e.log.Infof("pit on lap %d: %s after %d laps, out on %s from P%d",
		newLap, archived.Compound, archived.LapsCompleted, newCompound, newPosition)
	if e.bus != nil {
		e.bus.Publish(events.PitEvent{RunID: e.runID, Lap: newLap, Archived: archived, New: opened})
	}
	return archived, nil
}

// CurrentStint returns a copy of the stint in progress.
func (e *Engine) CurrentStint() model.Stint { return e.stints.Current() }

// StintHistory returns a read-only snapshot of the archived stints, ordered
// by stint number.
func (e *Engine) StintHistory() []model.Stint { return e.stints.History() }

// FilterState exposes the smoothed estimate and covariance without advancing
// the filter.
func (e *Engine) FilterState() (estimate, covariance float64) { return e.filter.State() }

// WearStatus classifies the current tire set.
func (e *Engine) WearStatus() stint.Status {
	cur := e.stints.Current()
	return e.stints.WearStatus(cur.LapsCompleted, cur.Compound)
}

// DegradationMultiplier returns the stint-age scaling applied to the most
// recently ticked measurement.
func (e *Engine) DegradationMultiplier() float64 {
	cur := e.stints.Current()
	return e.stints.DegradationMultiplier(cur.LapsCompleted, cur.Compound)
}
