package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sarchlab/digisim/circuits"
	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/timing"
)

var truthTableJSON bool

var truthTableCmd = &cobra.Command{
	Use:   "truthtable <circuit>",
	Short: "Print the truth table of a demo circuit.",
	Long: `Print the truth table of a demo circuit. Inputs count up from ` +
		`all-low and the simulation settles after each row, so sequential ` +
		`circuits show the state reached from the previous row.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delay, err := cmd.Flags().GetDuration("delay")
		if err != nil {
			return err
		}

		s := sim.NewSimulation()

		c, err := circuits.MakeBuilder().
			WithSimulation(s).
			WithDelay(timing.FromDuration(delay)).
			BuildNamed(args[0], args[0])
		if err != nil {
			return err
		}

		if err := s.Settle(); err != nil {
			return err
		}

		rows, err := circuits.TruthTable(s, c)
		if err != nil {
			return err
		}

		if truthTableJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(rows)
		}

		return circuits.WriteTruthTable(cmd.OutOrStdout(), s, c, rows)
	},
}

func init() {
	truthTableCmd.Flags().BoolVar(&truthTableJSON, "json", false,
		"print the rows as JSON")
	truthTableCmd.Flags().Duration("delay", 0, "delay of every gate")
	rootCmd.AddCommand(truthTableCmd)
}
