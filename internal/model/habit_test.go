package model

import (
	"errors"
	"testing"
	"time"
)

func TestHabitValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	h := Habit{
		ID:                "habit-1",
		Name:              "Drink water",
		CreatedAt:         now,
		BaseXPValue:       10,
		Streak:            3,
		LastCompletedDate: "2026-02-08",
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("expected valid habit, got error: %v", err)
	}
}

func TestHabitValidateRejectsBadFields(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	h := Habit{ID: "habit-1", Name: "  ", CreatedAt: now, BaseXPValue: 10}
	if err := h.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got: %v", err)
	}

	h.Name = "Read"
	h.BaseXPValue = 0
	if err := h.Validate(); !errors.Is(err, ErrInvalidXPValue) {
		t.Fatalf("expected ErrInvalidXPValue, got: %v", err)
	}

	h.BaseXPValue = 10
	h.Streak = -1
	if err := h.Validate(); !errors.Is(err, ErrInvalidStreak) {
		t.Fatalf("expected ErrInvalidStreak, got: %v", err)
	}

	h.Streak = 0
	h.LastCompletedDate = "09/02/2026"
	if err := h.Validate(); err == nil {
		t.Fatal("expected error for malformed last completed date")
	}
}

func TestNormalizeName(t *testing.T) {
	got, err := NormalizeName("  Meditate \n")
	if err != nil || got != "Meditate" {
		t.Fatalf("NormalizeName = %q, %v", got, err)
	}
	if _, err := NormalizeName("\t"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestDayHelpers(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2026, 3, 1, 0, 30, 0, 0, loc)
	if got := DayString(at); got != "2026-03-01" {
		t.Fatalf("DayString = %q", got)
	}
	if got := Yesterday(at); got != "2026-02-28" {
		t.Fatalf("Yesterday = %q", got)
	}
	next := NextMidnight(at)
	if !next.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, loc)) {
		t.Fatalf("NextMidnight = %v", next)
	}
	h := Habit{CreatedAt: time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC)}
	if got := h.CreatedDay(loc); got != "2026-03-01" {
		t.Fatalf("CreatedDay = %q", got)
	}
}

func TestSnapshotCloneDoesNotAlias(t *testing.T) {
	s := Snapshot{Habits: []Habit{{ID: "a", Name: "A"}}}
	c := s.Clone()
	c.Habits[0].Name = "changed"
	if s.Habits[0].Name != "A" {
		t.Fatalf("clone aliases original habits: %+v", s.Habits)
	}
	if c.IndexOf("a") != 0 || c.IndexOf("missing") != -1 {
		t.Fatalf("unexpected IndexOf results")
	}
}

func TestProfileValidate(t *testing.T) {
	p := Profile{XPForNextLevel: 100}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}
	p.XP = -1
	if err := p.Validate(); !errors.Is(err, ErrNegativeCounter) {
		t.Fatalf("expected ErrNegativeCounter, got %v", err)
	}
	p.XP = 0
	p.XPForNextLevel = 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for zero threshold")
	}
}
