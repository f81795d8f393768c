// Package hostconfig is the demo host's configuration layer: command-line
// flags and a YAML run-description format for the things the control
// engine itself does not know about (where to find the control-state
// file, what scenario to drive, randomizer settings), plus the
// plain-text control-state file loader/validator. Modeled on the
// teacher's pkg/config/config.go (a Config struct with Default() and a
// flag-registering Parser).
package hostconfig

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/translator"
)

// RandomizerConfig configures the synthetic-rate randomizer (pkg/scenario).
type RandomizerConfig struct {
	Seed             int64   // Seed for the randomizer
	GaussianNoise    float64 // Standard deviation for Gaussian noise on the rate (0.0 = none)
	BurstProbability float64 // Probability of entering a burst each iteration (0.0 = none)
	BurstDurationMin int     // Minimum burst duration, in iterations
	BurstDurationMax int     // Maximum burst duration, in iterations
	BurstIntensity   float64 // Multiplier applied to the rate during a burst
}

// Config holds the demo host's run configuration. PerfGoal, Period, and
// BufferDepth map directly onto poet.Config fields; ControlStatesPath and
// Scenario are host concerns the core never sees.
type Config struct {
	PerfGoal          float64
	Period            uint32
	BufferDepth       uint32
	LogPath           string
	ControlStatesPath string

	Scenario   string
	Iterations int
	Watch      bool

	Randomizer RandomizerConfig
}

// Default returns a configuration with sensible defaults.
func Default() Config {
	return Config{
		PerfGoal:          1.0,
		Period:            10,
		BufferDepth:       20,
		LogPath:           "poet.log",
		ControlStatesPath: "control_states.conf",
		Scenario:          "step",
		Iterations:        1000,
		Watch:             false,
		Randomizer: RandomizerConfig{
			Seed: time.Now().UnixNano(),
		},
	}
}

// Parser handles command-line flag parsing for the demo CLI.
type Parser struct {
	config  *Config
	flagSet *flag.FlagSet
}

// NewParser creates a new configuration parser seeded with Default().
func NewParser() *Parser {
	cfg := Default()
	return &Parser{
		config:  &cfg,
		flagSet: flag.NewFlagSet("poetctl", flag.ContinueOnError),
	}
}

// RegisterFlags registers all command-line flags.
func (p *Parser) RegisterFlags() {
	p.flagSet.Float64Var(&p.config.PerfGoal, "perf-goal", p.config.PerfGoal, "Target performance rate")
	p.flagSet.Func("period", "Iterations between controller recomputations", func(s string) error {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		p.config.Period = uint32(n)
		return nil
	})
	p.flagSet.Func("buffer-depth", "Number of periods buffered before a log flush", func(s string) error {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		p.config.BufferDepth = uint32(n)
		return nil
	})
	p.flagSet.StringVar(&p.config.LogPath, "log-path", p.config.LogPath, "Path to the control-loop data log")
	p.flagSet.StringVar(&p.config.ControlStatesPath, "control-states", p.config.ControlStatesPath, "Path to the control-state config file")
	p.flagSet.StringVar(&p.config.Scenario, "scenario", p.config.Scenario, "Synthetic rate scenario: step, ramp, sine, noisy")
	p.flagSet.IntVar(&p.config.Iterations, "iterations", p.config.Iterations, "Number of iterations to simulate")
	p.flagSet.BoolVar(&p.config.Watch, "watch", p.config.Watch, "Hot-reload the control-state file on change")

	p.flagSet.Int64Var(&p.config.Randomizer.Seed, "rng-seed", p.config.Randomizer.Seed, "Seed for the randomizer")
	p.flagSet.Float64Var(&p.config.Randomizer.GaussianNoise, "rng-gaussian-noise", p.config.Randomizer.GaussianNoise, "Standard deviation for Gaussian noise on the rate")
	p.flagSet.Float64Var(&p.config.Randomizer.BurstProbability, "rng-burst-probability", p.config.Randomizer.BurstProbability, "Probability of entering burst mode per iteration")
	p.flagSet.IntVar(&p.config.Randomizer.BurstDurationMin, "rng-burst-duration-min", p.config.Randomizer.BurstDurationMin, "Minimum burst duration in iterations")
	p.flagSet.IntVar(&p.config.Randomizer.BurstDurationMax, "rng-burst-duration-max", p.config.Randomizer.BurstDurationMax, "Maximum burst duration in iterations")
	p.flagSet.Float64Var(&p.config.Randomizer.BurstIntensity, "rng-burst-intensity", p.config.Randomizer.BurstIntensity, "Multiplier applied to the rate during a burst")
}

// Parse parses command-line arguments and returns the validated configuration.
func (p *Parser) Parse(args []string) (*Config, error) {
	p.RegisterFlags()

	if err := p.flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return p.config, nil
}

// Validate checks the configuration for internal consistency.
func (p *Parser) Validate() error {
	c := p.config

	if c.PerfGoal <= 0 {
		return fmt.Errorf("perf-goal (%v) must be > 0", c.PerfGoal)
	}
	if c.Period == 0 {
		return fmt.Errorf("period must be > 0")
	}
	if c.LogPath != "" && c.BufferDepth == 0 {
		return fmt.Errorf("buffer-depth must be > 0 when log-path is set")
	}
	if c.ControlStatesPath == "" {
		return fmt.Errorf("control-states path must be set")
	}

	validScenarios := []string{"step", "ramp", "sine", "noisy"}
	ok := false
	for _, v := range validScenarios {
		if c.Scenario == v {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid scenario %q, must be one of: %v", c.Scenario, validScenarios)
	}

	if c.Randomizer.BurstDurationMin < 0 || c.Randomizer.BurstDurationMax < c.Randomizer.BurstDurationMin {
		return fmt.Errorf("rng-burst-duration-min/max (%d/%d) must satisfy 0 <= min <= max",
			c.Randomizer.BurstDurationMin, c.Randomizer.BurstDurationMax)
	}

	return nil
}

// LoadControlStates parses the control-state config file: one
// non-comment record per line, whitespace-separated `id speedup cost`.
// Lines beginning with '#' are comments. Ids must be 0,1,2,... consecutive
// in the order they are assigned — this is the §3 data-model invariant
// the core itself does not re-check. Grounded on get_num_states /
// get_control_states in original_source/src/poet_config_linux.c.
func LoadControlStates(path string) ([]translator.ControlState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hostconfig: opening control-state file %s: %w", path, err)
	}
	defer f.Close()

	var states []translator.ControlState
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("hostconfig: %s:%d: expected 3 fields, got %d", path, lineNum, len(fields))
		}

		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("hostconfig: %s:%d: bad id %q: %w", path, lineNum, fields[0], err)
		}
		if int(id) != len(states) {
			return nil, fmt.Errorf("hostconfig: %s:%d: ids must be 0,1,2,... consecutive, expected %d got %d", path, lineNum, len(states), id)
		}

		speedup, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("hostconfig: %s:%d: bad speedup %q: %w", path, lineNum, fields[1], err)
		}
		cost, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("hostconfig: %s:%d: bad cost %q: %w", path, lineNum, fields[2], err)
		}

		states = append(states, translator.ControlState{
			ID:      uint32(id),
			Speedup: poetmath.FromFloat64(speedup),
			Cost:    poetmath.FromFloat64(cost),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("hostconfig: reading %s: %w", path, err)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("hostconfig: %s: no control states found", path)
	}
	return states, nil
}
