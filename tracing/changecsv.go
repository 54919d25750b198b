package tracing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/hooking"
)

// CSVChangeTracer is a hook that writes every slot change as a CSV row.
// Rows are buffered and written on Flush, when the buffer fills up, and at
// process exit for tracers created with OpenCSVChangeTracer.
type CSVChangeTracer struct {
	w      *csv.Writer
	closer io.Closer

	rows       []changeRow
	bufferSize int
}

type changeRow struct {
	entry sim.ChangeEntry
	name  string
}

// NewCSVChangeTracer writes to w. The header is written immediately.
func NewCSVChangeTracer(w io.Writer) *CSVChangeTracer {
	t := &CSVChangeTracer{
		w:          csv.NewWriter(w),
		bufferSize: 1000,
	}

	_ = t.w.Write([]string{
		"Time", "Component", "Name", "Slot", "Direction", "State",
	})
	t.w.Flush()

	return t
}

// OpenCSVChangeTracer creates path.csv and writes to it. A random name is
// used when path is empty. An existing file is never overwritten.
func OpenCSVChangeTracer(path string) (*CSVChangeTracer, error) {
	if path == "" {
		path = "digisim_changes_" + xid.New().String()
	}

	filename := path + ".csv"

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create change trace: %w", err)
	}

	t := NewCSVChangeTracer(file)
	t.closer = file

	atexit.Register(func() {
		if err := t.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close change trace: %v\n", err)
		}
	})

	return t, nil
}

// Func buffers the change entry.
func (t *CSVChangeTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sim.HookPosSlotStateChange {
		return
	}

	row := changeRow{entry: ctx.Item.(sim.ChangeEntry)}
	if slot, ok := ctx.Detail.(*sim.Slot); ok {
		row.name = slot.Owner().Name()
	}

	t.rows = append(t.rows, row)
	if len(t.rows) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered rows. Names are quoted when they contain commas,
// quotes or line breaks.
func (t *CSVChangeTracer) Flush() {
	for _, r := range t.rows {
		dir := sim.Output
		if r.entry.IsInput {
			dir = sim.Input
		}

		_ = t.w.Write([]string{
			strconv.FormatUint(uint64(r.entry.Time), 10),
			r.entry.ComponentID.String(),
			r.name,
			strconv.Itoa(r.entry.SlotIndex),
			dir.String(),
			strconv.Itoa(r.entry.State),
		})
	}

	t.rows = nil
	t.w.Flush()
}

// Close flushes and closes the underlying file, if the tracer owns one.
// Closing twice is harmless.
func (t *CSVChangeTracer) Close() error {
	t.Flush()

	if err := t.w.Error(); err != nil {
		return fmt.Errorf("write change trace: %w", err)
	}

	if t.closer == nil {
		return nil
	}

	c := t.closer
	t.closer = nil

	return c.Close()
}
