package jobs

import (
	"sync"
	"time"
)

// Queue schedules one-off and repeating callbacks. Named registrations are
// last-wins: scheduling under a taken name cancels the previous job. Anonymous
// one-offs (empty name) fire and forget.
type Queue struct {
	mu     sync.Mutex
	jobs   map[string]chan struct{}
	closed bool
}

func NewQueue() *Queue {
	return &Queue{jobs: make(map[string]chan struct{})}
}

// RunOnce fires fn once after delay. A non-positive delay fires immediately.
func (q *Queue) RunOnce(name string, delay time.Duration, fn func()) {
	stopCh := q.register(name)
	if stopCh == nil {
		return
	}

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-stopCh:
			return
		case <-timer.C:
			q.unregister(name, stopCh)
			fn()
		}
	}()
}

// RunRepeating fires fn every interval until the name is cancelled. When first
// is zero fn runs immediately before the first tick.
func (q *Queue) RunRepeating(name string, interval, first time.Duration, fn func()) {
	stopCh := q.register(name)
	if stopCh == nil {
		return
	}

	go func() {
		if first <= 0 {
			fn()
		} else {
			timer := time.NewTimer(first)
			select {
			case <-stopCh:
				timer.Stop()
				return
			case <-timer.C:
				fn()
			}
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Cancel stops the job registered under name, if any.
func (q *Queue) Cancel(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, ok := q.jobs[name]; ok {
		close(ch)
		delete(q.jobs, name)
	}
}

// Stop cancels every named job and rejects further scheduling.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for name, ch := range q.jobs {
		close(ch)
		delete(q.jobs, name)
	}
	q.closed = true
}

func (q *Queue) register(name string) chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	stopCh := make(chan struct{})
	if name != "" {
		if prev, ok := q.jobs[name]; ok {
			close(prev)
		}
		q.jobs[name] = stopCh
	}
	return stopCh
}

func (q *Queue) unregister(name string, ch chan struct{}) {
	if name == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if cur, ok := q.jobs[name]; ok && cur == ch {
		delete(q.jobs, name)
	}
}
