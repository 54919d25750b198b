package sim

import (
	"container/heap"

	"github.com/sarchlab/digisim/sim/timing"
)

// A scheduledSim is a request to simulate a component at a time. seq breaks
// ties so that same-time requests run in the order they were made.
type scheduledSim struct {
	time timing.VTimeInNs
	seq  uint64
	comp Component
}

type simHeap []scheduledSim

func (h simHeap) Len() int {
	return len(h)
}

func (h simHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].seq < h[j].seq
}

func (h simHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *simHeap) Push(x any) {
	*h = append(*h, x.(scheduledSim))
}

func (h *simHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = scheduledSim{}
	*h = old[:n-1]

	return e
}

// Scheduler is a min-priority queue of components waiting to be simulated,
// ordered by time. A component may be queued several times; the Simulation
// discards the entries that no longer match the component's NextSimTime when
// it pops them.
//
// The Scheduler is not safe for concurrent use.
type Scheduler struct {
	events  simHeap
	nextSeq uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.events)

	return s
}

// Push queues c to be simulated at t.
func (s *Scheduler) Push(c Component, t timing.VTimeInNs) {
	heap.Push(&s.events, scheduledSim{time: t, seq: s.nextSeq, comp: c})
	s.nextSeq++
}

// Pop removes and returns the earliest entry. It panics on an empty queue.
func (s *Scheduler) Pop() (Component, timing.VTimeInNs) {
	e := heap.Pop(&s.events).(scheduledSim)
	return e.comp, e.time
}

// Peek returns the time of the earliest entry without removing it. The bool
// is false when the queue is empty.
func (s *Scheduler) Peek() (timing.VTimeInNs, bool) {
	if len(s.events) == 0 {
		return timing.Never, false
	}

	return s.events[0].time, true
}

func (s *Scheduler) front() (Component, timing.VTimeInNs, bool) {
	if len(s.events) == 0 {
		return nil, timing.Never, false
	}

	return s.events[0].comp, s.events[0].time, true
}

// Len returns the number of queued entries, stale ones included.
func (s *Scheduler) Len() int {
	return len(s.events)
}

// Remove drops every entry of the component and returns how many were
// dropped.
func (s *Scheduler) Remove(id ComponentID) int {
	kept := s.events[:0]
	for _, e := range s.events {
		if e.comp.ID() != id {
			kept = append(kept, e)
		}
	}

	dropped := len(s.events) - len(kept)
	for i := len(kept); i < len(s.events); i++ {
		s.events[i] = scheduledSim{}
	}

	s.events = kept
	heap.Init(&s.events)

	return dropped
}

// Clear drops every entry.
func (s *Scheduler) Clear() {
	s.events = s.events[:0]
	s.nextSeq = 0
}
