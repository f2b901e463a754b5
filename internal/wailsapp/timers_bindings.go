// Package wailsapp provides countdown-timer Wails bindings.
package wailsapp

import (
	"time"

	"github.com/utildesk/utildesk/internal/timers"
)

// TimerDTO is the JSON-safe version of timers.Timer.
type TimerDTO struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	DurationMs  int64  `json:"durationMs"`
	RemainingMs int64  `json:"remainingMs"`
	StartedAt   string `json:"startedAt"`
	Paused      bool   `json:"paused"`
}

func timerToDTO(t timers.Timer) TimerDTO {
	return TimerDTO{
		ID:          t.ID,
		Label:       t.Label,
		DurationMs:  t.Duration.Milliseconds(),
		RemainingMs: t.Remaining.Milliseconds(),
		StartedAt:   t.StartedAt.Format(time.RFC3339),
		Paused:      t.Paused,
	}
}

// StartTimer starts a countdown of the given number of seconds. The
// frontend receives a tick event per second and a done event at zero.
func (a *App) StartTimer(label string, seconds int) (TimerDTO, error) {
	timer, err := a.timers.Start(label, time.Duration(seconds)*time.Second)
	if err != nil {
		return TimerDTO{}, err
	}
	return timerToDTO(timer), nil
}

// CancelTimer stops a running countdown without notifying.
func (a *App) CancelTimer(id int64) error {
	return a.timers.Cancel(id)
}

// PauseTimer freezes a countdown, keeping its remaining time.
func (a *App) PauseTimer(id int64) error {
	return a.timers.Pause(id)
}

// ResumeTimer continues a paused countdown.
func (a *App) ResumeTimer(id int64) error {
	return a.timers.Resume(id)
}

// ResetTimer restarts a countdown from its full duration.
func (a *App) ResetTimer(id int64) error {
	return a.timers.Reset(id)
}

// ListActiveTimers returns running countdowns ordered by start.
func (a *App) ListActiveTimers() []TimerDTO {
	active := a.timers.Active()
	dtos := make([]TimerDTO, 0, len(active))
	for _, t := range active {
		dtos = append(dtos, timerToDTO(t))
	}
	return dtos
}
