package sched

import (
	"errors"
	"fmt"
	"sync"

	"resource-dashboard-go/internal/logger"
)

var (
	// ErrSchedulerStopped is returned by Register after CancelAll.
	ErrSchedulerStopped = errors.New("sched: scheduler stopped")

	// ErrDuplicateTask is returned when a task name is already registered.
	ErrDuplicateTask = errors.New("sched: duplicate task name")
)

// Scheduler owns the set of active tasks and is the only component that
// decides whether a task fires again. Stop-then-cancel is a one-way
// transition: once running flips false, no task ever produces a new
// timer handle.
type Scheduler struct {
	mu      sync.Mutex
	host    TimerHost
	tasks   map[string]*Task
	running bool
}

// New creates a running scheduler on the given timer host.
func New(host TimerHost) *Scheduler {
	return &Scheduler{
		host:    host,
		tasks:   make(map[string]*Task),
		running: true,
	}
}

// Running reports whether the scheduler still allows rescheduling.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Register adds a task and performs its first schedule.
func (s *Scheduler) Register(t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		t.markStopped()
		return ErrSchedulerStopped
	}
	if _, exists := s.tasks[t.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, t.Name())
	}

	s.tasks[t.Name()] = t
	s.scheduleLocked(t)
	slog := logger.With("sched")
	slog.Debug().Str("task", t.Name()).
		Dur("interval", t.Interval()).Msg("task registered")
	return nil
}

// Task returns a registered task by name, or nil.
func (s *Scheduler) Task(name string) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[name]
}

// scheduleLocked issues the task's next timer handle. Caller holds mu,
// has verified running, and the task holds no outstanding handle.
func (s *Scheduler) scheduleLocked(t *Task) {
	t.handle = s.host.ScheduleAfter(t.Interval(), func() { s.fire(t) })
	t.hasHandle = true
}

// fire runs one task firing: body, then reschedule-or-stop. The running
// flag is re-checked after the body so a CancelAll issued mid-firing is
// observed before any reschedule.
func (s *Scheduler) fire(t *Task) {
	s.mu.Lock()
	if !s.running || t.Stopped() {
		// Cancelled between timer dequeue and this callback.
		t.hasHandle = false
		t.markStopped()
		s.mu.Unlock()
		return
	}
	t.hasHandle = false
	s.mu.Unlock()

	outcome := runBody(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || t.Stopped() || outcome == Stop {
		t.markStopped()
		slog := logger.With("sched")
		slog.Info().Str("task", t.Name()).Msg("task stopped")
		return
	}
	s.scheduleLocked(t)
}

// runBody executes the task body, converting a panic into a logged
// Continue: a misbehaving update must not kill the dashboard.
func runBody(t *Task) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog := logger.With("sched")
			slog.Error().Str("task", t.Name()).
				Interface("panic", r).Msg("panic in task body")
			outcome = Continue
		}
	}()
	return t.body()
}

// CancelAll sets running=false and clears every outstanding handle.
// Idempotent, and safe to call concurrently with a task mid-firing: the
// firing completes but observes running==false and does not reschedule.
// A body already executing on the loop goroutine may still be mid-write
// when CancelAll returns; callers that need all writes finished must
// also stop the timer loop, the way the shutdown sequence does.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	for _, t := range s.tasks {
		if t.hasHandle {
			s.host.Cancel(t.handle)
			t.hasHandle = false
		}
		t.markStopped()
	}
	slog := logger.With("sched")
	slog.Info().Int("tasks", len(s.tasks)).Msg("all tasks cancelled")
}
