package monitoring

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/xid"
)

// A ProgressBar tracks how far a run has come towards a known total, such as
// a simulated duration in nanoseconds.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// SetFinished records the absolute progress, clamped to the total.
func (b *ProgressBar) SetFinished(finished uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished = min(finished, b.Total)
}

// Fraction returns the finished share of the total.
func (b *ProgressBar) Fraction() float64 {
	b.Lock()
	defer b.Unlock()

	if b.Total == 0 {
		return 1
	}

	return float64(b.Finished) / float64(b.Total)
}

type progressBars struct {
	lock sync.Mutex
	bars []*ProgressBar
}

// CreateProgressBar creates a bar shown by /api/progress.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progress.lock.Lock()
	defer m.progress.lock.Unlock()

	m.progress.bars = append(m.progress.bars, bar)

	return bar
}

// CompleteProgressBar stops showing a bar.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progress.lock.Lock()
	defer m.progress.lock.Unlock()

	m.progress.bars = slices.DeleteFunc(m.progress.bars,
		func(b *ProgressBar) bool { return b == pb })
}

type progressRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progress.lock.Lock()
	rsp := make([]progressRsp, 0, len(m.progress.bars))

	for _, b := range m.progress.bars {
		b.Lock()
		rsp = append(rsp, progressRsp{
			ID:        b.ID,
			Name:      b.Name,
			StartTime: b.StartTime,
			Total:     b.Total,
			Finished:  b.Finished,
		})
		b.Unlock()
	}
	m.progress.lock.Unlock()

	m.writeJSON(w, rsp)
}
