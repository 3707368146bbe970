package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/habitd/internal/model"
)

// BaseCheatCost is the buyback price at level 0; every five levels add another BaseCheatCost.
const BaseCheatCost = 50

var ErrNoPendingCheat = errors.New("engine: habit has no broken streak to restore")

type InsufficientXPError struct {
	Need int
	Have int
}

func (e *InsufficientXPError) Error() string {
	return fmt.Sprintf("engine: cheat day costs %d XP, only %d available", e.Need, e.Have)
}

// CheatCost is ceil(BaseCheatCost * (1 + level/5)).
func CheatCost(level int) int {
	if level < 0 {
		level = 0
	}
	return (BaseCheatCost*(5+level) + 4) / 5
}

// UseCheatDay buys back a streak that broke at the last daily reset.
func UseCheatDay(p model.Profile, h model.Habit, now time.Time, rules Rules) (model.Profile, model.Habit, []Event, error) {
	if !h.PendingCheat {
		return p, h, nil, ErrNoPendingCheat
	}
	cost := CheatCost(p.Level)
	if p.XP < cost {
		return p, h, nil, &InsufficientXPError{Need: cost, Have: p.XP}
	}

	p, events := ApplyXPDelta(p, -cost, rules)
	p.CheatDays++

	h.Streak = h.PrevStreak
	h.PendingCheat = false
	h.PrevStreak = 0
	h.LastCompletedDate = model.Yesterday(now)

	events = append(events, Event{
		Kind:      EventCheatDayUsed,
		Level:     p.Level,
		Title:     Title(p.Level),
		HabitID:   h.ID,
		HabitName: h.Name,
		Streak:    h.Streak,
		Cost:      cost,
	})
	return p, h, events, nil
}
