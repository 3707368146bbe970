package tracker

import (
	"fmt"

	"github.com/sandeepkv93/habitd/internal/engine"
)

// Notice renders the short status text shown for an event.
func Notice(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventLevelUp:
		return fmt.Sprintf("LEVEL UP! You are now Level %d: %s! 🎉", ev.Level, ev.Title)
	case engine.EventLevelDown:
		return fmt.Sprintf("Level lost. You are back to Level %d: %s.", ev.Level, ev.Title)
	case engine.EventHabitAdded:
		return fmt.Sprintf("New habit: %s", ev.HabitName)
	case engine.EventHabitEdited:
		return fmt.Sprintf("Renamed %q to %q", ev.OldName, ev.HabitName)
	case engine.EventHabitDeleted:
		if ev.XP < 0 {
			return fmt.Sprintf("Deleted %s (%d XP)", ev.HabitName, ev.XP)
		}
		return fmt.Sprintf("Deleted %s", ev.HabitName)
	case engine.EventHabitCompleted:
		return fmt.Sprintf("+%d XP for %s (streak %d)", ev.XP, ev.HabitName, ev.Streak)
	case engine.EventHabitUncompleted:
		return fmt.Sprintf("%d XP, %s unchecked", ev.XP, ev.HabitName)
	case engine.EventDailyLogin:
		return fmt.Sprintf("Daily login +%d XP (login streak %d)", ev.XP, ev.LoginStreak)
	case engine.EventDailyReset:
		switch {
		case ev.Broken == 0 && ev.Maintained == 0:
			return "New day, fresh start."
		case ev.Broken == 0:
			return fmt.Sprintf("New day! %d streaks kept.", ev.Maintained)
		default:
			return fmt.Sprintf("New day! %d streaks kept, %d broken.", ev.Maintained, ev.Broken)
		}
	case engine.EventCheatDayUsed:
		return fmt.Sprintf("Cheat day: %s streak restored to %d for %d XP", ev.HabitName, ev.Streak, ev.Cost)
	default:
		return string(ev.Kind)
	}
}
