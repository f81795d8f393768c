// Command poetctl is the demo host: it drives the control engine against
// a synthetic or recorded rate stream and reports what it did. Replaces
// the teacher's cmd/simulator main.go, trading its manual os.Args switch
// for a cobra command tree (run / validate-config / describe), the shape
// several of the retrieved example repos use for their own CLIs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "poetctl",
		Short: "Drive and inspect the POET control engine",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateConfigCmd())
	root.AddCommand(newDescribeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
