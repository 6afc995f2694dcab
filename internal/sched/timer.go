// Package sched is the periodic update core: a cooperative timer queue,
// the self-rescheduling task state machine, and the scheduler that owns
// start/stop/cancel for every task.
package sched

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"
)

// Handle is an opaque token for a pending, not-yet-fired timer
// registration. The zero Handle is never issued.
type Handle uint64

// TimerHost schedules one-shot callbacks. Implemented by Loop in
// production and by manual fakes in tests.
type TimerHost interface {
	ScheduleAfter(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// =============================================================================
// Cooperative timer loop
// =============================================================================

type timer struct {
	when      time.Time
	seq       uint64 // FIFO tie-break for equal deadlines
	handle    Handle
	fn        func()
	cancelled bool
}

// Loop is a single-goroutine timer queue. All callbacks run on the Run
// goroutine, one at a time, in deadline order; a callback always runs to
// completion before the next due timer fires. ScheduleAfter and Cancel
// are safe to call from any goroutine, including from inside a callback.
type Loop struct {
	mu         sync.Mutex
	timers     timerHeap
	byHandle   map[Handle]*timer
	nextHandle Handle
	nextSeq    uint64

	wake     chan struct{}
	quit     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewLoop creates a timer loop. Call Start (or Run) to begin dispatch.
func NewLoop() *Loop {
	return &Loop{
		byHandle: make(map[Handle]*timer),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// ScheduleAfter registers fn to run once after d on the loop goroutine.
func (l *Loop) ScheduleAfter(d time.Duration, fn func()) Handle {
	l.mu.Lock()
	l.nextHandle++
	l.nextSeq++
	t := &timer{
		when:   time.Now().Add(d),
		seq:    l.nextSeq,
		handle: l.nextHandle,
		fn:     fn,
	}
	heap.Push(&l.timers, t)
	l.byHandle[t.handle] = t
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t.handle
}

// Cancel prevents a pending timer from firing. Cancelling an unknown or
// already-fired handle is a no-op.
func (l *Loop) Cancel(h Handle) {
	l.mu.Lock()
	if t, ok := l.byHandle[h]; ok {
		t.cancelled = true
		delete(l.byHandle, h)
	}
	l.mu.Unlock()
}

// Start runs the loop on its own goroutine.
func (l *Loop) Start() {
	go l.Run()
}

// Run dispatches timers until Stop. Blocks the calling goroutine.
func (l *Loop) Run() {
	l.started.Store(true)
	defer close(l.done)

	idle := time.NewTimer(time.Hour)
	defer idle.Stop()

	for {
		select {
		case <-l.quit:
			return
		default:
		}

		fire, wait := l.popDue()
		if fire != nil {
			fire.fn()
			continue
		}

		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(wait)

		select {
		case <-l.quit:
			return
		case <-l.wake:
		case <-idle.C:
		}
	}
}

// popDue returns the next due timer, or the wait until the earliest
// pending one. Cancelled timers are discarded in passing.
func (l *Loop) popDue() (*timer, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for l.timers.Len() > 0 {
		t := l.timers[0]
		if t.cancelled {
			heap.Pop(&l.timers)
			continue
		}
		if t.when.After(now) {
			return nil, t.when.Sub(now)
		}
		heap.Pop(&l.timers)
		delete(l.byHandle, t.handle)
		return t, 0
	}
	return nil, time.Hour
}

// Stop halts dispatch and waits for the loop goroutine to exit. Safe to
// call more than once and before Start.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
	if l.started.Load() {
		<-l.done
	}
}

// =============================================================================
// Timer heap (earliest deadline first, FIFO on ties)
// =============================================================================

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
