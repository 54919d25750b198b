// Package tracing provides hooks that observe a running simulation.
package tracing

import (
	"context"
	"log/slog"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/hooking"
)

// EventLogger is a hook that logs every simulation and every slot change at
// debug level.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger returns an EventLogger that writes to logger.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes one record per hook invocation.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if !h.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	switch ctx.Pos {
	case sim.HookPosBeforeSimulate:
		c := ctx.Item.(sim.Component)
		h.logger.Debug("simulate",
			"time", ctx.Detail,
			"component", c.ID().String(),
			"name", c.Name(),
			"kind", c.Kind().String())
	case sim.HookPosSlotStateChange:
		e := ctx.Item.(sim.ChangeEntry)
		slot := ctx.Detail.(*sim.Slot)
		h.logger.Debug("slot change",
			"time", e.Time,
			"component", e.ComponentID.String(),
			"name", slot.Owner().Name(),
			"slot", e.SlotIndex,
			"input", e.IsInput,
			"state", e.State)
	case sim.HookPosComponentCreated, sim.HookPosComponentRemoved:
		c := ctx.Item.(sim.Component)
		h.logger.Debug(ctx.Pos.Name,
			"component", c.ID().String(),
			"name", c.Name(),
			"kind", c.Kind().String())
	case sim.HookPosConnect, sim.HookPosDisconnect:
		edge := ctx.Item.(sim.Edge)
		h.logger.Debug(ctx.Pos.Name,
			"from", edge.From.String(),
			"to", edge.To.String())
	}
}
