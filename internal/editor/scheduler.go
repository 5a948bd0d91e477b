package editor

import (
	"sync"
	"time"
)

// FrameScheduler runs a callback before the next rendering frame. The
// controller arms at most one callback per frame; the scheduler only
// decides when "the next frame" is, so the coalescing discipline is
// portable across a real timer and a test harness's manual clock.
type FrameScheduler interface {
	Schedule(fn func())
}

// TickScheduler schedules callbacks on a fixed frame interval.
type TickScheduler struct {
	interval time.Duration
}

// NewTickScheduler returns a scheduler with the given frame interval.
// Non-positive intervals fall back to roughly one display frame.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &TickScheduler{interval: interval}
}

// Schedule runs fn once the current frame has elapsed.
func (s *TickScheduler) Schedule(fn func()) {
	time.AfterFunc(s.interval, fn)
}

// ManualScheduler queues callbacks until Fire is called. Tests use it to
// step frames by hand.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// Schedule queues fn for the next Fire.
func (s *ManualScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Fire runs every queued callback and returns how many ran.
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Pending reports the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
