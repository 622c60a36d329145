// Package cmd provides the command-line interface of hyperramsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hyperramsim",
		Short: "hyperramsim simulates a HyperRAM controller and device.",
		Long: `hyperramsim simulates a HyperRAM controller core, its DDR PHY and ` +
			`a HyperRAM device cycle by cycle. It replays the host transactions ` +
			`of a scenario file and checks the data read back.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())

	return root
}

// Execute runs the command line. The exit handlers registered with atexit
// run before the process exits.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
