package sim

import "github.com/sarchlab/digisim/sim/hooking"

// HookPosBeforeSimulate is invoked right before a component is simulated. The
// item is the Component.
var HookPosBeforeSimulate = &hooking.HookPos{Name: "BeforeSimulate"}

// HookPosAfterSimulate is invoked right after a component is simulated. The
// item is the Component.
var HookPosAfterSimulate = &hooking.HookPos{Name: "AfterSimulate"}

// HookPosSlotStateChange is invoked for every change entry. The item is the
// ChangeEntry and the detail is the *Slot.
var HookPosSlotStateChange = &hooking.HookPos{Name: "SlotStateChange"}

// HookPosComponentCreated is invoked after a component is registered. The
// item is the Component.
var HookPosComponentCreated = &hooking.HookPos{Name: "ComponentCreated"}

// HookPosComponentRemoved is invoked after a component is unregistered. The
// item is the Component.
var HookPosComponentRemoved = &hooking.HookPos{Name: "ComponentRemoved"}

// HookPosConnect is invoked after an edge is added. The item is an Edge.
var HookPosConnect = &hooking.HookPos{Name: "Connect"}

// HookPosDisconnect is invoked after an edge is removed. The item is an Edge.
var HookPosDisconnect = &hooking.HookPos{Name: "Disconnect"}

// Edge is a connection between an output slot and an input slot.
type Edge struct {
	From SlotID `json:"from"`
	To   SlotID `json:"to"`
}
