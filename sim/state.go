package sim

// State is a two-valued logic level.
type State uint8

// The logic levels.
const (
	Low State = iota
	High
)

// StateOf converts a bool to a State.
func StateOf(high bool) State {
	if high {
		return High
	}

	return Low
}

// IsHigh tells if the state is High.
func (s State) IsHigh() bool {
	return s == High
}

// Int returns 1 for High and 0 for Low.
func (s State) Int() int {
	if s == High {
		return 1
	}

	return 0
}

// Not returns the opposite level.
func (s State) Not() State {
	if s == High {
		return Low
	}

	return High
}

func (s State) String() string {
	if s == High {
		return "High"
	}

	return "Low"
}

// Direction tells if a slot receives or drives a signal.
type Direction uint8

// The slot directions.
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "Output"
	}

	return "Input"
}
