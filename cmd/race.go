package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/pitwall/config"
	"github.com/kilianp07/pitwall/core/advisory"
	"github.com/kilianp07/pitwall/core/engine"
	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/infra/logger"
	"github.com/kilianp07/pitwall/infra/metrics"
	"github.com/kilianp07/pitwall/infra/telemetry"
	"github.com/kilianp07/pitwall/internal/eventbus"
)

// runRace drives the strategy engine from the configured telemetry source.
// The loop owns everything the engine deliberately does not: fuel tracking,
// pit execution, advisory calls and metric recording.
func runRace(ctx context.Context, cfg *config.Config) error {
	logg := logger.New("race")

	sink := buildSink(ctx, cfg, logg)
	bus := eventbus.New()
	defer bus.Close()

	switch cfg.Telemetry.Source {
	case "csv":
		return replayCSV(ctx, cfg, logg, sink, bus)
	case "mqtt":
		return followMQTT(ctx, cfg, logg, sink, bus)
	case "sim":
		return runSim(ctx, cfg, logg, sink, bus)
	default:
		return fmt.Errorf("unknown telemetry source %q", cfg.Telemetry.Source)
	}
}

// buildSink assembles the configured metric exporters. It always returns a
// usable sink; with nothing enabled every record is discarded.
func buildSink(ctx context.Context, cfg *config.Config, logg logger.Logger) coremetrics.MetricsSink {
	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			logg.Errorf("prom sink: %v", err)
		} else {
			sinks = append(sinks, sink)
			go func() {
				if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr); err != nil {
					logg.Errorf("prom server: %v", err)
				}
			}()
		}
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}
	case 1:
		return sinks[0]
	default:
		return metrics.NewMultiSink(sinks...)
	}
}

// replayCSV feeds an exported session through the engine lap by lap. Pit
// stops are inferred from the stint column.
func replayCSV(ctx context.Context, cfg *config.Config, logg logger.Logger, sink coremetrics.MetricsSink, bus eventbus.EventBus) error {
	samples, err := telemetry.NewCSVSource(cfg.Telemetry.CSV).Read()
	if err != nil {
		return fmt.Errorf("read telemetry: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("telemetry file %s holds no laps", cfg.Telemetry.CSV)
	}

	weather := cfg.Race.StartWeather()
	eng, err := engine.New(cfg.Engine, engine.StartConditions{
		Lap:      samples[0].Lap,
		Compound: samples[0].Compound,
		Position: cfg.Race.StartPosition,
		Weather:  weather,
	}, logg, bus)
	if err != nil {
		return err
	}

	adv := advisory.NewRuleAdvisor()
	fuel := cfg.Race.FuelLaps
	stintNumber := samples[0].StintNumber

	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sample.StintNumber != stintNumber {
			archived, err := eng.Pit(sample.Compound, sample.Lap, cfg.Race.StartPosition, weather)
			if err != nil {
				return fmt.Errorf("pit on lap %d: %w", sample.Lap, err)
			}
			recordPit(sink, logg, eng.RunID(), sample.Lap, archived, sample.Compound)
			stintNumber = sample.StintNumber
		}

		tc := model.TickContext{
			Lap:               sample.Lap,
			Position:          cfg.Race.StartPosition,
			LapsFuelRemaining: fuel,
			Weather:           weather,
			Compound:          sample.Compound,
		}
		if _, _, err := tick(ctx, eng, adv, sink, logg, sample, tc); err != nil {
			return err
		}
		if fuel--; fuel < 0 {
			fuel = 0
		}
	}

	logg.Infof("replay complete: %d laps, %d stints archived", len(samples), len(eng.StintHistory()))
	return nil
}

// followMQTT consumes the live lap feed until the context is cancelled.
func followMQTT(ctx context.Context, cfg *config.Config, logg logger.Logger, sink coremetrics.MetricsSink, bus eventbus.EventBus) error {
	src, err := telemetry.NewMQTTSource(cfg.Telemetry.MQTT)
	if err != nil {
		return fmt.Errorf("mqtt source: %w", err)
	}
	defer src.Close()

	weather := cfg.Race.StartWeather()
	eng, err := engine.New(cfg.Engine, engine.StartConditions{
		Lap:      1,
		Compound: cfg.Race.StartCompound(),
		Position: cfg.Race.StartPosition,
		Weather:  weather,
	}, logg, bus)
	if err != nil {
		return err
	}

	adv := advisory.NewRuleAdvisor()
	fuel := cfg.Race.FuelLaps
	stintNumber := 1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample, ok := <-src.Samples():
			if !ok {
				return nil
			}
			if sample.StintNumber != stintNumber {
				archived, err := eng.Pit(sample.Compound, sample.Lap, cfg.Race.StartPosition, weather)
				if err != nil {
					logg.Errorf("pit on lap %d: %v", sample.Lap, err)
					continue
				}
				recordPit(sink, logg, eng.RunID(), sample.Lap, archived, sample.Compound)
				stintNumber = sample.StintNumber
			}
			tc := model.TickContext{
				Lap:               sample.Lap,
				Position:          cfg.Race.StartPosition,
				LapsFuelRemaining: fuel,
				Weather:           weather,
				Compound:          sample.Compound,
			}
			if _, _, err := tick(ctx, eng, adv, sink, logg, sample, tc); err != nil {
				return err
			}
			if fuel--; fuel < 0 {
				fuel = 0
			}
		}
	}
}

// recordPit forwards a completed stint to sinks that track pit stops.
func recordPit(sink coremetrics.MetricsSink, logg logger.Logger, runID string, lap int, archived model.Stint, newTire model.Compound) {
	pr, ok := sink.(coremetrics.PitRecorder)
	if !ok {
		return
	}
	if err := pr.RecordPit(coremetrics.PitRecord{
		RunID:   runID,
		Lap:     lap,
		Stint:   archived,
		NewTire: newTire,
		Time:    time.Now(),
	}); err != nil {
		logg.Warnf("record pit on lap %d: %v", lap, err)
	}
}

// tick runs one lap through the engine, reconciles the advisory verdict and
// records the outcome. Rejected inputs are logged and skipped; the engine
// state is untouched by them. The second return is false when the lap was
// skipped.
func tick(ctx context.Context, eng *engine.Engine, adv advisory.Advisor, sink coremetrics.MetricsSink, logg logger.Logger, sample telemetry.LapSample, tc model.TickContext) (model.Decision, bool, error) {
	dec, err := eng.Tick(sample.DegradationDelta, tc)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			logg.Warnf("lap %d skipped: %v", tc.Lap, err)
			return model.Decision{}, false, nil
		}
		return model.Decision{}, false, err
	}

	verdict, err := adv.Advise(ctx, advisory.Snapshot{
		Lap:              tc.Lap,
		Estimate:         dec.Estimate,
		CliffProbability: dec.CliffProbability,
		Urgency:          dec.Urgency,
		Recommendation:   dec.Recommendation,
	})
	if err != nil {
		logg.Warnf("advisory on lap %d: %v", tc.Lap, err)
		verdict = advisory.VerdictNone
	}
	dec = eng.Reconcile(dec, verdict)

	if err := sink.RecordLap(coremetrics.LapRecord{
		RunID:            eng.RunID(),
		Lap:              tc.Lap,
		Compound:         tc.Compound,
		Position:         tc.Position,
		Weather:          tc.Weather,
		RawDelta:         sample.DegradationDelta,
		ScaledDelta:      sample.DegradationDelta * eng.DegradationMultiplier() * tc.Weather.GripFactor(),
		Estimate:         dec.Estimate,
		Covariance:       dec.Covariance,
		CliffProbability: dec.CliffProbability,
		Urgency:          dec.Urgency,
		Recommendation:   dec.Recommendation,
		Mandatory:        dec.Mandatory,
		Time:             time.Now(),
	}); err != nil {
		logg.Warnf("record lap %d: %v", tc.Lap, err)
	}

	logg.Infof("lap %d: estimate %.3f cliff %.2f urgency %d -> %s",
		tc.Lap, dec.Estimate, dec.CliffProbability, dec.Urgency.TotalUrgency, dec.Recommendation)
	return dec, true, nil
}
