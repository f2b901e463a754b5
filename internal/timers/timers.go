// Package timers runs in-memory countdown timers. Each timer ticks on
// the event bus once per interval and fires a desktop notification when
// it reaches zero. Timers do not survive a restart.
package timers

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/events"
	"github.com/utildesk/utildesk/internal/notify"
)

// Timer is a snapshot of a running countdown.
type Timer struct {
	ID        int64
	Label     string
	Duration  time.Duration
	Remaining time.Duration
	StartedAt time.Time
	Paused    bool
}

type running struct {
	timer Timer
	stop  chan struct{}
}

// Service owns all active countdowns.
type Service struct {
	mu       sync.Mutex
	nextID   int64
	active   map[int64]*running
	bus      *events.EventBus
	notifier *notify.Notifier
	tick     time.Duration
}

// NewService wires a timer service. bus and notifier may be nil.
func NewService(bus *events.EventBus, notifier *notify.Notifier) *Service {
	return &Service{
		active:   make(map[int64]*running),
		bus:      bus,
		notifier: notifier,
		tick:     constants.TimerTickInterval,
	}
}

// SetTickInterval overrides the tick period, for tests.
func (s *Service) SetTickInterval(d time.Duration) {
	if d > 0 {
		s.tick = d
	}
}

// Start launches a countdown and returns its snapshot.
func (s *Service) Start(label string, duration time.Duration) (Timer, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Timer"
	}
	if duration <= 0 {
		return Timer{}, fmt.Errorf("duração deve ser positiva")
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	r := &running{
		timer: Timer{
			ID:        id,
			Label:     label,
			Duration:  duration,
			Remaining: duration,
			StartedAt: time.Now(),
		},
		stop: make(chan struct{}),
	}
	s.active[id] = r
	s.mu.Unlock()

	go s.run(r, r.stop)
	return r.timer, nil
}

// Pause freezes a countdown, keeping its remaining time.
func (s *Service) Pause(id int64) error {
	s.mu.Lock()
	r, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("timer %d não encontrado", id)
	}
	if r.timer.Paused {
		s.mu.Unlock()
		return nil
	}
	r.timer.Paused = true
	stop := r.stop
	r.stop = make(chan struct{})
	s.mu.Unlock()
	close(stop)
	return nil
}

// Resume continues a paused countdown from its remaining time.
func (s *Service) Resume(id int64) error {
	s.mu.Lock()
	r, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("timer %d não encontrado", id)
	}
	if !r.timer.Paused {
		s.mu.Unlock()
		return nil
	}
	r.timer.Paused = false
	stop := r.stop
	s.mu.Unlock()
	go s.run(r, stop)
	return nil
}

// Reset restarts a countdown from its full duration.
func (s *Service) Reset(id int64) error {
	s.mu.Lock()
	r, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("timer %d não encontrado", id)
	}
	r.timer.Remaining = r.timer.Duration
	r.timer.StartedAt = time.Now()
	r.timer.Paused = false
	old := r.stop
	r.stop = make(chan struct{})
	stop := r.stop
	s.mu.Unlock()
	close(old)
	go s.run(r, stop)
	return nil
}

// Cancel stops a countdown without firing its notification.
func (s *Service) Cancel(id int64) error {
	s.mu.Lock()
	r, ok := s.active[id]
	if ok {
		delete(s.active, id)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("timer %d não encontrado", id)
	}
	close(r.stop)
	return nil
}

// Active returns snapshots of all running timers, oldest first.
func (s *Service) Active() []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Timer, 0, len(s.active))
	for _, r := range s.active {
		out = append(out, r.timer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CancelAll stops every running timer.
func (s *Service) CancelAll() {
	s.mu.Lock()
	for id, r := range s.active {
		close(r.stop)
		delete(s.active, id)
	}
	s.mu.Unlock()
}

func (s *Service) run(r *running, stop <-chan struct{}) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.mu.Lock()
	deadline := time.Now().Add(r.timer.Remaining)
	s.mu.Unlock()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			remaining := deadline.Sub(now)
			if remaining <= 0 {
				s.finish(r)
				return
			}
			s.updateRemaining(r, remaining)
			s.publishTick(r.timer.ID, remaining)
		}
	}
}

func (s *Service) updateRemaining(r *running, remaining time.Duration) {
	s.mu.Lock()
	r.timer.Remaining = remaining
	s.mu.Unlock()
}

func (s *Service) finish(r *running) {
	s.mu.Lock()
	delete(s.active, r.timer.ID)
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(&events.TimerDoneEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventTimerDone, Time: time.Now()},
			TimerID:   r.timer.ID,
			Label:     r.timer.Label,
		})
	}
	if s.notifier != nil {
		s.notifier.TimerDone(r.timer.Label, r.timer.Duration)
	}
}

func (s *Service) publishTick(id int64, remaining time.Duration) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(&events.TimerTickEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventTimerTick, Time: time.Now()},
		TimerID:   id,
		Remaining: remaining,
	})
}
