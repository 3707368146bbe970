package engine

type EventKind string

const (
	EventLevelUp          EventKind = "level_up"
	EventLevelDown        EventKind = "level_down"
	EventHabitAdded       EventKind = "new_habit"
	EventHabitEdited      EventKind = "habit_edit"
	EventHabitDeleted     EventKind = "habit_delete"
	EventHabitCompleted   EventKind = "habit_complete"
	EventHabitUncompleted EventKind = "habit_uncomplete"
	EventDailyLogin       EventKind = "daily_login"
	EventDailyReset       EventKind = "daily_reset"
	EventCheatDayUsed     EventKind = "cheat_day"
)

// Remarkable reports whether the companion comments on this kind of event.
func (k EventKind) Remarkable() bool {
	switch k {
	case EventLevelUp, EventHabitAdded, EventHabitEdited, EventHabitDeleted, EventHabitCompleted, EventDailyLogin:
		return true
	default:
		return false
	}
}

// Event describes something the engine or the tracker did. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind EventKind

	Level int
	Title string
	// XP is the signed amount awarded for habit events and the lifetime total for level events.
	XP int

	HabitID   string
	HabitName string
	OldName   string
	Streak    int

	LoginStreak int
	Broken      int
	Maintained  int
	Cost        int
}
