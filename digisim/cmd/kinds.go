package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/digisim/circuits"
	"github.com/sarchlab/digisim/sim"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the component kinds and the demo circuits.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Components:")
		for _, k := range sim.Kinds() {
			role := "source/sink"
			if k.IsGate() {
				role = "gate"
			}

			fmt.Fprintf(out, "  %-14s %s\n", k, role)
		}

		fmt.Fprintln(out, "Circuits:")
		for _, name := range circuits.Names() {
			fmt.Fprintf(out, "  %s\n", name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
