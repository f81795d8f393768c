package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kpeeters/poet/pkg/hostconfig"
	"github.com/kpeeters/poet/pkg/scenario"
)

func newDescribeCmd() *cobra.Command {
	var controlStatesPath string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the available scenarios and, if given, a control-state file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Scenarios:")
			for _, name := range scenario.ValidNames() {
				fmt.Printf("  - %s\n", name)
			}

			if controlStatesPath == "" {
				return nil
			}

			states, err := hostconfig.LoadControlStates(controlStatesPath)
			if err != nil {
				return err
			}

			fmt.Printf("\nControl states (%s):\n", controlStatesPath)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSpeedup\tCost")
			for _, st := range states {
				fmt.Fprintf(w, "%d\t%.6f\t%.6f\n", st.ID, st.Speedup.ToFloat64(), st.Cost.ToFloat64())
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&controlStatesPath, "control-states", "", "Path to a control-state config file to describe")
	return cmd
}
