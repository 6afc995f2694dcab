package sched

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopFiresInDeadlineOrder(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	record := func(name string, last bool) func() {
		return func() {
			mu.Lock()
			got = append(got, name)
			mu.Unlock()
			if last {
				close(done)
			}
		}
	}

	l.ScheduleAfter(60*time.Millisecond, record("c", true))
	l.ScheduleAfter(20*time.Millisecond, record("a", false))
	l.ScheduleAfter(40*time.Millisecond, record("b", false))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timers did not fire")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestLoopCancelPreventsFiring(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	fired := make(chan string, 2)
	h := l.ScheduleAfter(20*time.Millisecond, func() { fired <- "cancelled" })
	l.ScheduleAfter(60*time.Millisecond, func() { fired <- "kept" })
	l.Cancel(h)

	select {
	case name := <-fired:
		assert.Equal(t, "kept", name)
	case <-time.After(2 * time.Second):
		t.Fatal("surviving timer did not fire")
	}

	select {
	case name := <-fired:
		t.Fatalf("cancelled timer fired: %s", name)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLoopScheduleFromCallback(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	done := make(chan struct{})
	l.ScheduleAfter(10*time.Millisecond, func() {
		l.ScheduleAfter(10*time.Millisecond, func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("chained timer did not fire")
	}
}

func TestLoopStopIsIdempotent(t *testing.T) {
	l := NewLoop()
	l.Start()

	// Give the goroutine a moment to enter Run.
	time.Sleep(10 * time.Millisecond)
	l.Stop()
	l.Stop()
}

func TestLoopStopBeforeStart(t *testing.T) {
	l := NewLoop()
	l.Stop() // must not hang waiting for a goroutine that never ran
}

func TestLoopCallbacksAreSerial(t *testing.T) {
	l := NewLoop()
	l.Start()
	defer l.Stop()

	var mu sync.Mutex
	inBody := false
	overlapped := false
	done := make(chan struct{})

	body := func(last bool) func() {
		return func() {
			mu.Lock()
			if inBody {
				overlapped = true
			}
			inBody = true
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inBody = false
			mu.Unlock()
			if last {
				close(done)
			}
		}
	}

	// All due immediately; they must still run one at a time.
	for i := 0; i < 4; i++ {
		l.ScheduleAfter(0, body(false))
	}
	l.ScheduleAfter(0, body(true))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callbacks did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	require.False(t, overlapped, "callbacks overlapped")
}
