package sim

import (
	"fmt"
	"strings"

	"github.com/sarchlab/digisim/sim/idgen"
)

// ComponentID identifies a component within one Simulation.
type ComponentID struct {
	idgen.Handle
}

// String formats the id as "c<index>.<generation>".
func (id ComponentID) String() string {
	return "c" + id.Handle.String()
}

// SlotID identifies a slot within one Simulation.
type SlotID struct {
	idgen.Handle
}

// String formats the id as "s<index>.<generation>".
func (id SlotID) String() string {
	return "s" + id.Handle.String()
}

// ParseComponentID reverses ComponentID.String.
func ParseComponentID(s string) (ComponentID, error) {
	rest, found := strings.CutPrefix(s, "c")
	if !found {
		return ComponentID{}, fmt.Errorf("sim: %q is not a component id", s)
	}

	h, err := idgen.Parse(rest)
	if err != nil {
		return ComponentID{}, err
	}

	return ComponentID{h}, nil
}

// ParseSlotID reverses SlotID.String.
func ParseSlotID(s string) (SlotID, error) {
	rest, found := strings.CutPrefix(s, "s")
	if !found {
		return SlotID{}, fmt.Errorf("sim: %q is not a slot id", s)
	}

	h, err := idgen.Parse(rest)
	if err != nil {
		return SlotID{}, err
	}

	return SlotID{h}, nil
}

// MarshalText encodes the id in its String form.
func (id ComponentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes an id produced by MarshalText.
func (id *ComponentID) UnmarshalText(b []byte) error {
	parsed, err := ParseComponentID(string(b))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// MarshalText encodes the id in its String form.
func (id SlotID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes an id produced by MarshalText.
func (id *SlotID) UnmarshalText(b []byte) error {
	parsed, err := ParseSlotID(string(b))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}
