// Package reminder scans the task store for tasks coming due and raises
// each one at most once per login session.
package reminder

import (
	"sync"
	"time"

	"taskmaster/internal/task"
)

// Event describes a task due within the reminder window.
type Event struct {
	TaskID int64
	Title  string
	Due    time.Time
}

// Source yields the current task collection on each tick.
type Source interface {
	All() []task.Task
}

// Scheduler is either idle (no timer) or running (one periodic timer).
// Start while running cancels the previous timer, so repeated logins never
// stack tickers.
type Scheduler struct {
	source   Source
	interval time.Duration
	window   time.Duration
	now      func() time.Time

	mu       sync.Mutex
	notified map[int64]struct{}
	stop     chan struct{}
}

func New(source Source, interval, window time.Duration) *Scheduler {
	return &Scheduler{
		source:   source,
		interval: interval,
		window:   window,
		now:      time.Now,
		notified: map[int64]struct{}{},
	}
}

// Start transitions to running and delivers events for owner to sink on
// every tick. The sink is called from the timer goroutine.
func (s *Scheduler) Start(owner string, sink func(Event)) {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				for _, ev := range s.Scan(owner, s.now()) {
					sink(ev)
				}
			}
		}
	}()
}

// Stop transitions to idle. Safe to call when already idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Reset clears the session notify set so a later session can re-raise a
// task that is still due.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = map[int64]struct{}{}
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Scan returns the owner's open tasks due strictly within (0, window) of
// now that have not been raised this session, marking each as raised.
func (s *Scheduler) Scan(owner string, now time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Event
	for _, t := range s.source.All() {
		if t.Owner != owner || t.Completed || t.Due == nil {
			continue
		}
		diff := t.Due.Sub(now)
		if diff <= 0 || diff >= s.window {
			continue
		}
		if _, seen := s.notified[t.ID]; seen {
			continue
		}
		s.notified[t.ID] = struct{}{}
		due = append(due, Event{TaskID: t.ID, Title: t.Title, Due: *t.Due})
	}
	return due
}
