// Package cmd provides the command-line interface of digisim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "digisim",
	Short: "digisim simulates digital logic circuits.",
	Long: `digisim simulates networks of logic gates, inputs, clocks and ` +
		`probes with a discrete-event engine. It can run a demo circuit in ` +
		`real time, print truth tables and list the component kinds.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
