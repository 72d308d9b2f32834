package jobs

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRunOnceFires(t *testing.T) {
	q := NewQueue()
	defer q.Stop()

	var fired atomic.Int32
	q.RunOnce("job", 10*time.Millisecond, func() { fired.Add(1) })

	waitFor(t, func() bool { return fired.Load() == 1 }, "one-off job never fired")
}

func TestCancelPreventsFiring(t *testing.T) {
	q := NewQueue()
	defer q.Stop()

	var fired atomic.Int32
	q.RunOnce("job", 50*time.Millisecond, func() { fired.Add(1) })
	q.Cancel("job")

	time.Sleep(150 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("cancelled job fired %d times", fired.Load())
	}
}

func TestNamedRegistrationReplaces(t *testing.T) {
	q := NewQueue()
	defer q.Stop()

	var first, second atomic.Int32
	q.RunOnce("job", 50*time.Millisecond, func() { first.Add(1) })
	q.RunOnce("job", 10*time.Millisecond, func() { second.Add(1) })

	waitFor(t, func() bool { return second.Load() == 1 }, "replacement job never fired")
	time.Sleep(100 * time.Millisecond)
	if first.Load() != 0 {
		t.Errorf("replaced job still fired %d times", first.Load())
	}
}

func TestRunRepeating(t *testing.T) {
	q := NewQueue()
	defer q.Stop()

	var ticks atomic.Int32
	q.RunRepeating("tick", 20*time.Millisecond, 0, func() { ticks.Add(1) })

	waitFor(t, func() bool { return ticks.Load() >= 3 }, "repeating job did not tick")

	q.Cancel("tick")
	at := ticks.Load()
	time.Sleep(100 * time.Millisecond)
	if got := ticks.Load(); got > at+1 {
		t.Errorf("repeating job kept ticking after cancel: %d -> %d", at, got)
	}
}

func TestStopRejectsNewJobs(t *testing.T) {
	q := NewQueue()
	q.Stop()

	var fired atomic.Int32
	q.RunOnce("late", time.Millisecond, func() { fired.Add(1) })

	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("job scheduled after Stop fired %d times", fired.Load())
	}
}
