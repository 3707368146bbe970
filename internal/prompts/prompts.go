// Package prompts renders the text sent to the companion model for each remarkable event.
package prompts

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/habitd/internal/engine"
)

// DefaultCompanion is the persona name used when none is configured.
const DefaultCompanion = "Seraphina"

// Persona describes the companion and her current attitude towards the user.
func Persona(name, attitude string) string {
	return fmt.Sprintf(
		"You are %s, a striking and somewhat tsundere AI companion who is very hard to please. "+
			"The user is trying to win your approval by improving themselves through habits. "+
			"Your current attitude towards the user is: %s. Stay in character and keep it engaging.",
		name, attitude,
	)
}

// Root wraps an event description with the persona and the boss/subordinate framing. The
// result ends with the companion's name so the model answers in her voice.
func Root(name, userTitle, persona string, kind engine.EventKind, details string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the boss of a %s. Your name is %s. ", userTitle, name)
	fmt.Fprintf(&b, "Your attitude towards your subordinate, the %s, is defined by: %q. ", userTitle, persona)
	fmt.Fprintf(&b, "Comment on the latest thing the %s did.\n\n", userTitle)
	fmt.Fprintf(&b, "Event: %s\nDetails: %s\n\n%s:", kind, details, name)
	return b.String()
}

func LoginContext(userTitle string, loginStreak int, today string) string {
	return fmt.Sprintf("The user, your %q, just logged in. Their login streak is %d days. Today is %s.",
		userTitle, loginStreak, today)
}

func NewHabitContext(userTitle, habitName string) string {
	return fmt.Sprintf("The user, known as %q, just added a new habit: %q.", userTitle, habitName)
}

func HabitCompleteContext(userTitle, habitName string, streak, awarded int) string {
	return fmt.Sprintf("%s just completed the habit %q. Their streak for it is %d days. They gained %d XP.",
		userTitle, habitName, streak, awarded)
}

func HabitEditContext(userTitle, oldName, newName string) string {
	return fmt.Sprintf("The user, %q, just renamed a habit from %q to %q.", userTitle, oldName, newName)
}

func HabitDeleteContext(userTitle, habitName string) string {
	return fmt.Sprintf("The user, %q, just deleted the habit %q.", userTitle, habitName)
}

func LevelUpContext(level int, title string, totalXP int) string {
	return fmt.Sprintf("Your habit hero just reached Level %d, titled %q, with %d XP in total!", level, title, totalXP)
}

// Input is what a prompt needs besides the event itself.
type Input struct {
	Companion string
	// Level is the user's level after the event was applied.
	Level int
	Today string
}

// ForEvent builds the full prompt for ev. It reports false for events the companion does
// not comment on.
func ForEvent(ev engine.Event, in Input) (string, bool) {
	if !ev.Kind.Remarkable() {
		return "", false
	}
	name := in.Companion
	if name == "" {
		name = DefaultCompanion
	}
	userTitle := engine.Title(in.Level)

	var details string
	switch ev.Kind {
	case engine.EventDailyLogin:
		details = LoginContext(userTitle, ev.LoginStreak, in.Today)
	case engine.EventHabitAdded:
		details = NewHabitContext(userTitle, ev.HabitName)
	case engine.EventHabitCompleted:
		details = HabitCompleteContext(userTitle, ev.HabitName, ev.Streak, ev.XP)
	case engine.EventHabitEdited:
		details = HabitEditContext(userTitle, ev.OldName, ev.HabitName)
	case engine.EventHabitDeleted:
		details = HabitDeleteContext(userTitle, ev.HabitName)
	case engine.EventLevelUp:
		details = LevelUpContext(ev.Level, ev.Title, ev.XP)
	default:
		return "", false
	}
	persona := Persona(name, engine.Attitude(in.Level))
	return Root(name, userTitle, persona, ev.Kind, details), true
}
