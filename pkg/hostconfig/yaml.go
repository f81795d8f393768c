package hostconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunDescription is the YAML-serializable form of a full run: the engine
// parameters poet.Config needs plus the host-only scenario/randomizer
// settings, so a run can be captured, diffed, and replayed from a single
// file instead of a long flag line.
type RunDescription struct {
	PerfGoal          float64          `yaml:"perf_goal"`
	Period            uint32           `yaml:"period"`
	BufferDepth       uint32           `yaml:"buffer_depth"`
	LogPath           string           `yaml:"log_path"`
	ControlStatesPath string           `yaml:"control_states_path"`
	Scenario          string           `yaml:"scenario"`
	Iterations        int              `yaml:"iterations"`
	Watch             bool             `yaml:"watch"`
	Randomizer        RandomizerConfig `yaml:"randomizer"`
}

// LoadYAML reads a RunDescription from path and converts it to a Config.
func LoadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostconfig: reading %s: %w", path, err)
	}

	rd := runDescriptionFromConfig(Default())
	if err := yaml.Unmarshal(data, &rd); err != nil {
		return nil, fmt.Errorf("hostconfig: parsing %s: %w", path, err)
	}

	cfg := rd.toConfig()
	p := &Parser{config: &cfg}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("hostconfig: %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveYAML writes cfg to path as a RunDescription, for capturing a run so
// it can be replayed later via LoadYAML.
func SaveYAML(path string, cfg Config) error {
	rd := runDescriptionFromConfig(cfg)
	data, err := yaml.Marshal(rd)
	if err != nil {
		return fmt.Errorf("hostconfig: marshaling run description: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("hostconfig: writing %s: %w", path, err)
	}
	return nil
}

func runDescriptionFromConfig(cfg Config) RunDescription {
	return RunDescription{
		PerfGoal:          cfg.PerfGoal,
		Period:            cfg.Period,
		BufferDepth:       cfg.BufferDepth,
		LogPath:           cfg.LogPath,
		ControlStatesPath: cfg.ControlStatesPath,
		Scenario:          cfg.Scenario,
		Iterations:        cfg.Iterations,
		Watch:             cfg.Watch,
		Randomizer:        cfg.Randomizer,
	}
}

func (rd RunDescription) toConfig() Config {
	return Config{
		PerfGoal:          rd.PerfGoal,
		Period:            rd.Period,
		BufferDepth:       rd.BufferDepth,
		LogPath:           rd.LogPath,
		ControlStatesPath: rd.ControlStatesPath,
		Scenario:          rd.Scenario,
		Iterations:        rd.Iterations,
		Watch:             rd.Watch,
		Randomizer:        rd.Randomizer,
	}
}
