package sched

import (
	"sync/atomic"
	"time"
)

// Outcome is what a task body reports back to the scheduler after one
// firing. Failures inside the body are not outcomes: the body renders a
// degraded state and returns Continue. Stop is reserved for the cases
// where polling again can never succeed.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

// State of a periodic task. Scheduled means exactly one timer handle is
// outstanding. Stopped is terminal: no handle, never fires again.
type State int32

const (
	StateScheduled State = iota
	StateStopped
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "scheduled"
}

// Task is a named, cancellable, self-rescheduling unit of work. It fires
// on the scheduler's timer host, runs its body, and is rescheduled by
// the scheduler after interval unless stopped.
//
// handle and hasHandle are owned by the Scheduler and guarded by its
// mutex; at most one outstanding handle exists at any time.
type Task struct {
	name     string
	interval time.Duration
	body     func() Outcome

	state     atomic.Int32
	handle    Handle
	hasHandle bool
}

// NewTask creates a task bound to one body and a fixed interval.
func NewTask(name string, interval time.Duration, body func() Outcome) *Task {
	return &Task{
		name:     name,
		interval: interval,
		body:     body,
	}
}

// Name returns the task identity.
func (t *Task) Name() string { return t.name }

// Interval returns the firing interval.
func (t *Task) Interval() time.Duration { return t.interval }

// State returns the current task state.
func (t *Task) State() State { return State(t.state.Load()) }

// Stopped reports whether the task has reached its terminal state.
func (t *Task) Stopped() bool { return t.State() == StateStopped }

func (t *Task) markStopped() { t.state.Store(int32(StateStopped)) }
