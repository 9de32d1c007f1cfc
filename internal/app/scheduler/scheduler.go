package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs delayed callbacks keyed by an owner id (an order id), so
// all timers for one order can be cancelled together when the order is.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string][]*time.Timer
}

func New() *Scheduler {
	return &Scheduler{timers: make(map[string][]*time.Timer)}
}

// Schedule fires fn after delay. The callback runs on a timer goroutine;
// callers hand it work that locks its own state.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		fn()
		s.remove(key, t)
	})
	s.timers[key] = append(s.timers[key], t)
}

// Cancel stops every pending timer under key. Timers already firing are not
// interrupted.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.timers[key] {
		t.Stop()
	}
	delete(s.timers, key)
}

// Pending reports how many timers are still queued under key.
func (s *Scheduler) Pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[key])
}

// Stop cancels everything; used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timers := range s.timers {
		for _, t := range timers {
			t.Stop()
		}
		delete(s.timers, key)
	}
}

func (s *Scheduler) remove(key string, fired *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.timers[key][:0]
	for _, t := range s.timers[key] {
		if t != fired {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == 0 {
		delete(s.timers, key)
	} else {
		s.timers[key] = remaining
	}
}
