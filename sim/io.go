package sim

// DigitalInput is a source whose level is set from outside the simulation.
type DigitalInput struct {
	*ComponentBase

	state State
}

// State returns the externally set level.
func (d *DigitalInput) State() State {
	return d.state
}

// SetValue changes the level and schedules the input so that the output
// follows on the next drain.
func (d *DigitalInput) SetValue(high bool) {
	d.state = StateOf(high)
	d.ScheduleSim()
}

// Toggle inverts the level.
func (d *DigitalInput) Toggle() {
	d.SetValue(!d.state.IsHigh())
}

// Simulate pushes the level to the output.
func (d *DigitalInput) Simulate() {
	if d.removed {
		return
	}

	d.drive(0, d.state)
}

// DigitalOutput is a sink that exposes the level of its only input.
type DigitalOutput struct {
	*ComponentBase

	state State
}

// State returns the level observed at the last simulation.
func (d *DigitalOutput) State() State {
	return d.state
}

// Simulate records the input level.
func (d *DigitalOutput) Simulate() {
	if d.removed {
		return
	}

	d.state = d.inputs[0].state
}
