package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kpeeters/poet/pkg/hostconfig"
	"github.com/kpeeters/poet/pkg/poet"
	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/scenario"
	"github.com/kpeeters/poet/pkg/visualization"
)

func newRunCmd() *cobra.Command {
	cfg := hostconfig.Default()
	var enableGraphs bool
	var logScale bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the control engine against a synthetic rate scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cfg, enableGraphs, logScale)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&cfg.PerfGoal, "perf-goal", cfg.PerfGoal, "Target performance rate")
	flags.Uint32Var(&cfg.Period, "period", cfg.Period, "Iterations between controller recomputations")
	flags.Uint32Var(&cfg.BufferDepth, "buffer-depth", cfg.BufferDepth, "Number of periods buffered before a log flush")
	flags.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "Path to the control-loop data log")
	flags.StringVar(&cfg.ControlStatesPath, "control-states", cfg.ControlStatesPath, "Path to the control-state config file")
	flags.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "Synthetic rate scenario: step, ramp, sine, noisy")
	flags.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Number of iterations to simulate")
	flags.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Hot-reload the control-state file on change")
	flags.Int64Var(&cfg.Randomizer.Seed, "rng-seed", cfg.Randomizer.Seed, "Seed for the randomizer")
	flags.Float64Var(&cfg.Randomizer.GaussianNoise, "rng-gaussian-noise", cfg.Randomizer.GaussianNoise, "Standard deviation for Gaussian noise on the rate")
	flags.Float64Var(&cfg.Randomizer.BurstProbability, "rng-burst-probability", cfg.Randomizer.BurstProbability, "Probability of entering burst mode per iteration")
	flags.IntVar(&cfg.Randomizer.BurstDurationMin, "rng-burst-duration-min", cfg.Randomizer.BurstDurationMin, "Minimum burst duration in iterations")
	flags.IntVar(&cfg.Randomizer.BurstDurationMax, "rng-burst-duration-max", cfg.Randomizer.BurstDurationMax, "Maximum burst duration in iterations")
	flags.Float64Var(&cfg.Randomizer.BurstIntensity, "rng-burst-intensity", cfg.Randomizer.BurstIntensity, "Multiplier applied to the rate during a burst")
	flags.BoolVar(&enableGraphs, "graphs", false, "Generate an HTML chart of the run")
	flags.BoolVar(&logScale, "log-scale", false, "Use a logarithmic speedup axis in the generated chart")

	return cmd
}

func runScenario(cfg hostconfig.Config, enableGraphs, logScale bool) error {
	if err := validateHostConfig(cfg); err != nil {
		return err
	}

	states, err := hostconfig.LoadControlStates(cfg.ControlStatesPath)
	if err != nil {
		return err
	}

	gen := scenario.NewGenerator(cfg.PerfGoal, cfg.Randomizer)
	s, err := gen.Generate(cfg.Scenario, cfg.Iterations)
	if err != nil {
		return err
	}

	fmt.Printf("Running %s scenario: %s\n", s.Name, s.Description)
	fmt.Printf("Perf goal: %.3f, period: %d, iterations: %d\n\n", cfg.PerfGoal, cfg.Period, cfg.Iterations)

	var applyCount int
	data := visualization.RunData{}

	engine, err := poet.Init(poet.Config{
		PerfGoal:      poetmath.FromFloat64(cfg.PerfGoal),
		ControlStates: states,
		Period:        cfg.Period,
		BufferDepth:   cfg.BufferDepth,
		LogPath:       cfg.LogPath,
		ApplyFn: func(ctx any, numStates uint32, newID, lastID uint32) {
			applyCount++
		},
	})
	if err != nil {
		return fmt.Errorf("poetctl: initializing engine: %w", err)
	}
	defer engine.Destroy()

	var watcher *fsnotify.Watcher
	if cfg.Watch {
		watcher, err = watchControlStates(cfg.ControlStatesPath, engine)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Iteration\tRate\tSpeedup\tWorkload\tApplied ID")

	for i, rate := range s.Rates {
		engine.ApplyControl(uint64(i), poetmath.FromFloat64(rate), poetmath.Zero)

		data.Iterations = append(data.Iterations, float64(i))
		data.Rates = append(data.Rates, rate)
		data.Speedups = append(data.Speedups, engine.Speedup().ToFloat64())
		data.Workloads = append(data.Workloads, engine.Workload().ToFloat64())
		data.AppliedIDs = append(data.AppliedIDs, float64(engine.LastAppliedID()))

		if i < 20 || i >= len(s.Rates)-5 {
			fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%d\n",
				i, rate, engine.Speedup().ToFloat64(), engine.Workload().ToFloat64(), engine.LastAppliedID())
		}
	}
	w.Flush()

	fmt.Printf("\nConfiguration changes applied: %d\n", applyCount)
	fmt.Printf("Final speedup: %.3f, final applied id: %d\n", engine.Speedup().ToFloat64(), engine.LastAppliedID())

	if enableGraphs {
		generator := visualization.NewGenerator()
		filename := fmt.Sprintf("chart_%s.html", strings.ToLower(strings.ReplaceAll(s.Name, " ", "_")))
		var genErr error
		if logScale {
			genErr = generator.GenerateRunChartWithLogScale(s.Name, data, filename)
		} else {
			genErr = generator.GenerateRunChart(s.Name, data, filename)
		}
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to generate chart: %v\n", genErr)
		} else {
			fmt.Printf("Chart written to %s\n", filename)
		}
	}

	return nil
}

func validateHostConfig(cfg hostconfig.Config) error {
	if cfg.PerfGoal <= 0 {
		return fmt.Errorf("perf-goal (%v) must be > 0", cfg.PerfGoal)
	}
	if cfg.Period == 0 {
		return fmt.Errorf("period must be > 0")
	}
	if cfg.LogPath != "" && cfg.BufferDepth == 0 {
		return fmt.Errorf("buffer-depth must be > 0 when log-path is set")
	}
	if cfg.ControlStatesPath == "" {
		return fmt.Errorf("control-states path must be set")
	}
	return nil
}

// watchControlStates watches the control-state file for changes and hot
// swaps the engine's states via ReplaceControlStates on every write.
func watchControlStates(path string, engine *poet.State) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("poetctl: creating watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("poetctl: watching %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				states, err := hostconfig.LoadControlStates(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "poetctl: reload of %s failed: %v\n", path, err)
					continue
				}
				if err := engine.ReplaceControlStates(states); err != nil {
					fmt.Fprintf(os.Stderr, "poetctl: applying reloaded control states failed: %v\n", err)
					continue
				}
				fmt.Printf("poetctl: reloaded %d control states from %s\n", len(states), path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "poetctl: watcher error: %v\n", err)
			}
		}
	}()

	return watcher, nil
}
