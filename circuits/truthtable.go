package circuits

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/digisim/sim"
)

// A Row is one line of a truth table.
type Row struct {
	Inputs  []int `json:"inputs"`
	Outputs []int `json:"outputs"`
}

// TruthTable drives every combination of the circuit inputs, counting up from
// all-low with the first input as the most significant bit, and settles the
// simulation after each one. Sequential circuits report the outputs reached
// from the previous row.
func TruthTable(s *sim.Simulation, c Circuit) ([]Row, error) {
	n := len(c.Inputs)
	rows := make([]Row, 0, 1<<n)

	for m := 0; m < 1<<n; m++ {
		row := Row{Inputs: make([]int, n)}

		for i, id := range c.Inputs {
			bit := (m >> (n - 1 - i)) & 1
			row.Inputs[i] = bit
			s.SetInputValue(id, bit == 1)
		}

		if err := s.Settle(); err != nil {
			return rows, fmt.Errorf("truth table of %s: %w", c.Name, err)
		}

		for _, id := range c.Outputs {
			inputs, _ := s.GetState(id)
			row.Outputs = append(row.Outputs, inputs[0])
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// WriteTruthTable prints rows under a header of terminal names.
func WriteTruthTable(w io.Writer, s *sim.Simulation, c Circuit, rows []Row) error {
	header := make([]string, 0, len(c.Inputs)+len(c.Outputs)+1)
	for _, id := range c.Inputs {
		header = append(header, shortName(s, c, id))
	}

	header = append(header, "|")
	for _, id := range c.Outputs {
		header = append(header, shortName(s, c, id))
	}

	if _, err := fmt.Fprintln(w, strings.Join(header, " ")); err != nil {
		return err
	}

	for _, r := range rows {
		cells := make([]string, 0, len(header))
		for i, v := range r.Inputs {
			cells = append(cells, pad(v, header[i]))
		}

		cells = append(cells, "|")
		for i, v := range r.Outputs {
			cells = append(cells, pad(v, header[len(r.Inputs)+1+i]))
		}

		line := strings.TrimRight(strings.Join(cells, " "), " ")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func shortName(s *sim.Simulation, c Circuit, id sim.ComponentID) string {
	name := s.Component(id).Name()
	return strings.TrimPrefix(name, c.Name+".")
}

func pad(v int, title string) string {
	return fmt.Sprintf("%-*d", len(title), v)
}
