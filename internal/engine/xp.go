package engine

import (
	"math"

	"github.com/sandeepkv93/habitd/internal/model"
)

const (
	// BaseXPForLevel1 is the threshold to advance past level 0.
	BaseXPForLevel1 = 100

	// GrowthFactor scales each later threshold: floor(BaseXPForLevel1 * GrowthFactor^level).
	GrowthFactor = 1.2

	// BaseXPPerHabit is the fixed reward of a newly created habit.
	BaseXPPerHabit = 10

	// XPForDailyLogin is awarded once per calendar day on first launch.
	XPForDailyLogin = 5
)

// Rules toggles the optional parts of the engine.
type Rules struct {
	// CheatDays stages broken streaks so they can be bought back instead of dropping them.
	CheatDays bool
	// LevelDown lets negative deltas borrow from previous levels.
	LevelDown bool
}

func DefaultRules() Rules {
	return Rules{CheatDays: true, LevelDown: true}
}

// ThresholdFor returns the XP needed to advance past level.
func ThresholdFor(level int) int {
	if level <= 0 {
		return BaseXPForLevel1
	}
	return int(math.Floor(BaseXPForLevel1 * math.Pow(GrowthFactor, float64(level))))
}

// NewProfile is the profile of a first launch on the given day.
func NewProfile(today string) model.Profile {
	return model.Profile{
		XPForNextLevel: ThresholdFor(0),
		LastDailyReset: today,
	}
}

// Normalize clamps negative counters and recomputes the derived threshold from the level,
// which is never trusted from storage.
func Normalize(p model.Profile) model.Profile {
	if p.Level < 0 {
		p.Level = 0
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.CurrentLevelXP < 0 {
		p.CurrentLevelXP = 0
	}
	p.LoginStreak = max(p.LoginStreak, 0)
	p.CheatDays = max(p.CheatDays, 0)
	p.XPForNextLevel = ThresholdFor(p.Level)
	return p
}

// ApplyXPDelta adds a signed amount of XP and walks the level up or down one threshold at a
// time. One event is returned per level crossed, in the order they were crossed.
func ApplyXPDelta(p model.Profile, amount int, rules Rules) (model.Profile, []Event) {
	var events []Event

	p.XP = max(0, p.XP+amount)
	p.CurrentLevelXP += amount

	for p.XPForNextLevel > 0 && p.CurrentLevelXP >= p.XPForNextLevel {
		p.CurrentLevelXP -= p.XPForNextLevel
		p.Level++
		p.XPForNextLevel = ThresholdFor(p.Level)
		events = append(events, Event{Kind: EventLevelUp, Level: p.Level, Title: Title(p.Level), XP: p.XP})
	}

	if rules.LevelDown {
		for p.CurrentLevelXP < 0 && p.Level > 0 {
			p.Level--
			borrowed := ThresholdFor(p.Level)
			p.CurrentLevelXP += borrowed
			p.XPForNextLevel = borrowed
			events = append(events, Event{Kind: EventLevelDown, Level: p.Level, Title: Title(p.Level), XP: p.XP})
		}
	}

	if p.CurrentLevelXP < 0 {
		p.CurrentLevelXP = 0
	}
	if p.Level == 0 {
		p.XPForNextLevel = ThresholdFor(0)
	}
	return p, events
}

// StreakBonus is the extra XP a completion earns on top of the habit's base value.
func StreakBonus(streak int) int {
	if streak <= 0 {
		return 0
	}
	streak = min(streak, 30)
	switch {
	case streak >= 30:
		return 20
	case streak >= 20:
		return 15
	case streak >= 10:
		return 10
	case streak >= 5:
		return 5
	default:
		return 2
	}
}

// CompletionValue is what completing h today is worth, and what un-completing it takes back.
func CompletionValue(h model.Habit) int {
	return h.BaseXPValue + StreakBonus(h.Streak)
}
