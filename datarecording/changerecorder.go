package datarecording

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/hooking"
	"github.com/sarchlab/digisim/sim/timing"
)

// Table names used by ChangeRecorder.
const (
	ChangeTable     = "slot_changes"
	EvaluationTable = "evaluations"
)

// ChangeRow is one slot change in the slot_changes table.
type ChangeRow struct {
	RunID     string
	Time      uint64
	Component string
	Name      string
	Slot      int
	IsInput   bool
	State     int
}

// EvaluationRow is one component simulation in the evaluations table.
type EvaluationRow struct {
	RunID     string
	Time      uint64
	Component string
	Name      string
	Kind      string
}

// ChangeRecorder is a hook that records slot changes and evaluations.
type ChangeRecorder struct {
	recorder DataRecorder
	runID    string
	logger   *slog.Logger
}

// NewChangeRecorder creates the tables and returns the hook. runID tags every
// row so that several runs can share one database.
func NewChangeRecorder(
	recorder DataRecorder,
	runID string,
	logger *slog.Logger,
) (*ChangeRecorder, error) {
	if err := recorder.CreateTable(ChangeTable, ChangeRow{}); err != nil {
		return nil, errors.Wrap(err, "set up change recording")
	}

	if err := recorder.CreateTable(EvaluationTable, EvaluationRow{}); err != nil {
		return nil, errors.Wrap(err, "set up change recording")
	}

	return &ChangeRecorder{
		recorder: recorder,
		runID:    runID,
		logger:   logger,
	}, nil
}

// Func records the hook invocation if it is a change or an evaluation.
func (r *ChangeRecorder) Func(ctx hooking.HookCtx) {
	var err error

	switch ctx.Pos {
	case sim.HookPosSlotStateChange:
		err = r.recordChange(ctx)
	case sim.HookPosBeforeSimulate:
		err = r.recordEvaluation(ctx)
	default:
		return
	}

	if err != nil {
		r.logger.Error("recording failed", "error", err)
	}
}

func (r *ChangeRecorder) recordChange(ctx hooking.HookCtx) error {
	e := ctx.Item.(sim.ChangeEntry)

	row := ChangeRow{
		RunID:     r.runID,
		Time:      uint64(e.Time),
		Component: e.ComponentID.String(),
		Slot:      e.SlotIndex,
		IsInput:   e.IsInput,
		State:     e.State,
	}

	if slot, ok := ctx.Detail.(*sim.Slot); ok {
		row.Name = slot.Owner().Name()
	}

	return r.recorder.InsertData(ChangeTable, row)
}

func (r *ChangeRecorder) recordEvaluation(ctx hooking.HookCtx) error {
	c := ctx.Item.(sim.Component)

	row := EvaluationRow{
		RunID:     r.runID,
		Component: c.ID().String(),
		Name:      c.Name(),
		Kind:      c.Kind().String(),
	}

	if t, ok := ctx.Detail.(timing.VTimeInNs); ok {
		row.Time = uint64(t)
	}

	return r.recorder.InsertData(EvaluationTable, row)
}
