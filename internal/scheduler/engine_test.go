package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Event{ID: "later", Kind: KindStatusExpiry, TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Event{ID: "sooner", Kind: KindStatusExpiry, TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Event{
			ID:        fmt.Sprintf("evt-%d", i),
			Kind:      KindStatusExpiry,
			TriggerAt: at,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleReplacesSameID(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Event{ID: RolloverID, Kind: KindDayRollover, TriggerAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule far: %v", err)
	}
	if err := engine.Schedule(Event{ID: RolloverID, Kind: KindDayRollover, TriggerAt: now.Add(10 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule near: %v", err)
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected a single pending rollover, got %d", got)
	}

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.Kind != KindDayRollover {
		t.Fatalf("unexpected kind %q", ev.Kind)
	}
	if got := engine.Pending(); got != 0 {
		t.Fatalf("expected empty queue after firing, got %d", got)
	}
}

func TestCancel(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Event{ID: "status", Kind: KindStatusExpiry, TriggerAt: time.Now().Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !engine.Cancel("status") {
		t.Fatal("expected cancel to find the event")
	}
	if engine.Cancel("status") {
		t.Fatal("expected second cancel to miss")
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("cancelled event fired: %+v", ev)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Event{ID: "bad"}); !errors.Is(err, ErrInvalidTriggerTime) {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleAfterStop(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Event{ID: "late", TriggerAt: time.Now()}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestNextRollover(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2026, 3, 31, 23, 59, 58, 0, loc)
	ev := NextRollover(now)
	want := time.Date(2026, 4, 1, 0, 0, 1, 0, loc)
	if !ev.TriggerAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, ev.TriggerAt)
	}
	if ev.ID != RolloverID || ev.Kind != KindDayRollover {
		t.Fatalf("unexpected rollover event %+v", ev)
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
