package timers

import (
	"testing"
	"time"

	"github.com/utildesk/utildesk/internal/events"
)

func TestStartAndActive(t *testing.T) {
	svc := NewService(nil, nil)
	defer svc.CancelAll()

	timer, err := svc.Start("foco", 25*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if timer.Label != "foco" || timer.Duration != 25*time.Minute {
		t.Errorf("Unexpected timer %+v", timer)
	}

	active := svc.Active()
	if len(active) != 1 || active[0].ID != timer.ID {
		t.Errorf("Unexpected active list %+v", active)
	}
}

func TestStart_Validation(t *testing.T) {
	svc := NewService(nil, nil)
	defer svc.CancelAll()

	if _, err := svc.Start("x", 0); err == nil {
		t.Error("Expected error for zero duration")
	}

	timer, err := svc.Start("   ", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if timer.Label != "Timer" {
		t.Errorf("Expected default label, got %q", timer.Label)
	}
}

func TestCancel(t *testing.T) {
	svc := NewService(nil, nil)
	defer svc.CancelAll()

	timer, err := svc.Start("pausa", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(timer.ID); err != nil {
		t.Fatal(err)
	}
	if len(svc.Active()) != 0 {
		t.Error("Canceled timer should not be active")
	}
	if err := svc.Cancel(timer.ID); err == nil {
		t.Error("Expected error canceling twice")
	}
}

func TestPauseAndResume(t *testing.T) {
	svc := NewService(nil, nil)
	defer svc.CancelAll()
	svc.SetTickInterval(5 * time.Millisecond)

	timer, err := svc.Start("pausavel", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Pause(timer.ID); err != nil {
		t.Fatal(err)
	}
	// Allow any in-flight tick from before the pause to land.
	time.Sleep(10 * time.Millisecond)

	active := svc.Active()
	if len(active) != 1 || !active[0].Paused {
		t.Errorf("Expected one paused timer, got %+v", active)
	}
	frozen := active[0].Remaining
	time.Sleep(30 * time.Millisecond)
	if got := svc.Active()[0].Remaining; got != frozen {
		t.Errorf("Paused timer kept counting: %v -> %v", frozen, got)
	}

	if err := svc.Resume(timer.ID); err != nil {
		t.Fatal(err)
	}
	if svc.Active()[0].Paused {
		t.Error("Resumed timer still paused")
	}

	if err := svc.Pause(9999); err == nil {
		t.Error("Expected error pausing unknown timer")
	}
}

func TestReset(t *testing.T) {
	svc := NewService(nil, nil)
	defer svc.CancelAll()
	svc.SetTickInterval(5 * time.Millisecond)

	timer, err := svc.Start("reinicio", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// Let a few ticks bring Remaining below the full duration.
	deadline := time.Now().Add(time.Second)
	for svc.Active()[0].Remaining == time.Hour && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	before := svc.Active()[0].Remaining
	if before == time.Hour {
		t.Fatal("Timer never ticked")
	}

	if err := svc.Reset(timer.ID); err != nil {
		t.Fatal(err)
	}
	got := svc.Active()[0]
	if got.Remaining <= before || got.Paused {
		t.Errorf("Unexpected timer after reset: %+v (was %v)", got, before)
	}

	if err := svc.Reset(9999); err == nil {
		t.Error("Expected error resetting unknown timer")
	}
}

func TestCountdownCompletes(t *testing.T) {
	bus := events.NewEventBus(100)
	defer bus.Close()
	tickCh := bus.Subscribe(events.EventTimerTick)
	doneCh := bus.Subscribe(events.EventTimerDone)

	svc := NewService(bus, nil)
	defer svc.CancelAll()
	svc.SetTickInterval(5 * time.Millisecond)

	timer, err := svc.Start("curto", 30*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-tickCh:
		tick := ev.(*events.TimerTickEvent)
		if tick.TimerID != timer.ID {
			t.Errorf("Tick for wrong timer: %+v", tick)
		}
		if tick.Remaining <= 0 || tick.Remaining > 30*time.Millisecond {
			t.Errorf("Remaining out of range: %v", tick.Remaining)
		}
	case <-time.After(time.Second):
		t.Fatal("No tick event")
	}

	select {
	case ev := <-doneCh:
		done := ev.(*events.TimerDoneEvent)
		if done.TimerID != timer.ID || done.Label != "curto" {
			t.Errorf("Unexpected done event %+v", done)
		}
	case <-time.After(time.Second):
		t.Fatal("No done event")
	}

	// Completed timer leaves the active set.
	deadline := time.Now().Add(time.Second)
	for len(svc.Active()) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if len(svc.Active()) != 0 {
		t.Error("Completed timer still active")
	}
}
