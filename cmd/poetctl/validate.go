package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpeeters/poet/pkg/hostconfig"
)

func newValidateConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config <run.yaml>",
		Short: "Validate a run-description YAML file and its control-state file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := hostconfig.LoadYAML(args[0])
			if err != nil {
				return err
			}

			states, err := hostconfig.LoadControlStates(cfg.ControlStatesPath)
			if err != nil {
				return err
			}

			fmt.Printf("%s: valid\n", args[0])
			fmt.Printf("  perf goal: %.3f, period: %d, scenario: %s\n", cfg.PerfGoal, cfg.Period, cfg.Scenario)
			fmt.Printf("  control states (%s): %d entries\n", cfg.ControlStatesPath, len(states))
			return nil
		},
	}
	return cmd
}
