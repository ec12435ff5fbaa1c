package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pitwall/config"
	"github.com/kilianp07/pitwall/core/advisory"
	"github.com/kilianp07/pitwall/core/engine"
	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/infra/logger"
	"github.com/kilianp07/pitwall/internal/eventbus"
	"github.com/kilianp07/pitwall/simulator"
)

var (
	simSeed     uint64
	simRainFrom int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the engine against a synthetic race",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "random seed for the synthetic session")
	simulateCmd.Flags().IntVar(&simRainFrom, "rain-from", 0, "lap on which rain starts (0 = dry race)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("simulate")
	sink := buildSink(ctx, cfg, logg)
	bus := eventbus.New()
	defer bus.Close()
	return runSim(ctx, cfg, logg, sink, bus)
}

// runSim runs a closed loop: synthetic laps feed the engine, and the
// engine's own recommendations trigger the simulated pit stops.
func runSim(ctx context.Context, cfg *config.Config, logg logger.Logger, sink coremetrics.MetricsSink, bus eventbus.EventBus) error {
	simCfg := simulator.Config{
		Seed:          simSeed,
		Laps:          cfg.Race.Laps,
		Compound:      cfg.Race.StartCompound(),
		StartPosition: cfg.Race.StartPosition,
		FuelLaps:      cfg.Race.FuelLaps,
		RainFromLap:   simRainFrom,
	}
	simCfg.SetDefaults()
	if err := simCfg.Validate(); err != nil {
		return err
	}
	race := simulator.New(simCfg)

	eng, err := engine.New(cfg.Engine, engine.StartConditions{
		Lap:      1,
		Compound: simCfg.Compound,
		Position: simCfg.StartPosition,
		Weather:  model.WeatherDry,
	}, logg, bus)
	if err != nil {
		return err
	}

	adv := advisory.NewRuleAdvisor()
	stintNumber := 1

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		lap, ok := race.Next()
		if !ok {
			break
		}
		if lap.Sample.StintNumber != stintNumber {
			archived, err := eng.Pit(lap.Sample.Compound, lap.Sample.Lap, lap.Position, lap.Weather)
			if err != nil {
				return fmt.Errorf("pit on lap %d: %w", lap.Sample.Lap, err)
			}
			recordPit(sink, logg, eng.RunID(), lap.Sample.Lap, archived, lap.Sample.Compound)
			stintNumber = lap.Sample.StintNumber
		}

		tc := model.TickContext{
			Lap:               lap.Sample.Lap,
			Position:          lap.Position,
			LapsFuelRemaining: lap.FuelLaps,
			Weather:           lap.Weather,
			Compound:          lap.Sample.Compound,
		}
		dec, processed, err := tick(ctx, eng, adv, sink, logg, lap.Sample, tc)
		if err != nil {
			return err
		}
		if !processed {
			continue
		}

		remaining := simCfg.Laps - lap.Sample.Lap
		if remaining > 0 && wantsPit(dec) {
			race.Pit(pickCompound(lap.Weather, remaining))
		}
	}

	logg.Infof("simulation complete: %d laps, %d stints archived",
		race.CurrentLap(), len(eng.StintHistory()))
	return nil
}

func wantsPit(dec model.Decision) bool {
	return dec.Mandatory || dec.Recommendation >= model.PitSoon
}

// pickCompound is the simulation's call on the out-lap tire: rain compounds
// when it is wet, otherwise the hardest slick the remaining distance needs.
func pickCompound(weather model.Weather, remaining int) model.Compound {
	if weather.IsWet() {
		return model.CompoundIntermediate
	}
	switch {
	case remaining > 25:
		return model.CompoundHard
	case remaining > 12:
		return model.CompoundMedium
	default:
		return model.CompoundSoft
	}
}
