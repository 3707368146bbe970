package engine

import (
	"time"

	"github.com/sandeepkv93/habitd/internal/model"
)

// CompleteHabit marks h done for the day containing now. A habit already completed today
// is returned unchanged.
func CompleteHabit(p model.Profile, h model.Habit, now time.Time, rules Rules) (model.Profile, model.Habit, []Event) {
	if h.CompletedToday {
		return p, h, nil
	}
	h.Streak = nextStreak(h, now)
	h.CompletedToday = true
	h.LastCompletedDate = model.DayString(now)
	h.PendingCheat = false
	h.PrevStreak = 0

	awarded := CompletionValue(h)
	p, events := ApplyXPDelta(p, awarded, rules)
	events = append(events, Event{
		Kind:      EventHabitCompleted,
		Level:     p.Level,
		Title:     Title(p.Level),
		XP:        awarded,
		HabitID:   h.ID,
		HabitName: h.Name,
		Streak:    h.Streak,
	})
	return p, h, events
}

// UncompleteHabit clears today's completion and takes back the XP it earned. The streak and
// last completion date are left alone.
func UncompleteHabit(p model.Profile, h model.Habit, rules Rules) (model.Profile, model.Habit, []Event) {
	if !h.CompletedToday {
		return p, h, nil
	}
	h.CompletedToday = false
	removed := CompletionValue(h)
	p, events := ApplyXPDelta(p, -removed, rules)
	events = append(events, Event{
		Kind:      EventHabitUncompleted,
		Level:     p.Level,
		Title:     Title(p.Level),
		XP:        -removed,
		HabitID:   h.ID,
		HabitName: h.Name,
		Streak:    h.Streak,
	})
	return p, h, events
}

// NextCompletionValue is what completing h at now would award. It is zero when h is
// already done today.
func NextCompletionValue(h model.Habit, now time.Time) int {
	if h.CompletedToday {
		return 0
	}
	h.Streak = nextStreak(h, now)
	return CompletionValue(h)
}

func nextStreak(h model.Habit, now time.Time) int {
	switch h.LastCompletedDate {
	case model.Yesterday(now):
		return h.Streak + 1
	case model.DayString(now):
		// re-completing after an undo on the same day keeps the streak it already earned
		return max(h.Streak, 1)
	default:
		return 1
	}
}

func ToggleHabit(p model.Profile, h model.Habit, now time.Time, rules Rules) (model.Profile, model.Habit, []Event) {
	if h.CompletedToday {
		return UncompleteHabit(p, h, rules)
	}
	return CompleteHabit(p, h, now, rules)
}
