package model

import (
	"errors"
	"fmt"
)

var ErrNegativeCounter = errors.New("model: negative profile counter")

// Profile is the single user's progression state. It is persisted as a whole.
type Profile struct {
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	CurrentLevelXP int    `json:"currentLevelXP"`
	XPForNextLevel int    `json:"xpForNextLevel"`
	LastDailyReset string `json:"lastDailyReset,omitempty"`
	LastLoginDate  string `json:"lastLoginDate,omitempty"`
	LoginStreak    int    `json:"loginStreak"`
	CheatDays      int    `json:"cheatDays"`
	APIKey         string `json:"geminiApiKey,omitempty"`
}

func (p Profile) Validate() error {
	switch {
	case p.XP < 0:
		return fmt.Errorf("%w: xp=%d", ErrNegativeCounter, p.XP)
	case p.Level < 0:
		return fmt.Errorf("%w: level=%d", ErrNegativeCounter, p.Level)
	case p.CurrentLevelXP < 0:
		return fmt.Errorf("%w: current_level_xp=%d", ErrNegativeCounter, p.CurrentLevelXP)
	case p.LoginStreak < 0:
		return fmt.Errorf("%w: login_streak=%d", ErrNegativeCounter, p.LoginStreak)
	case p.CheatDays < 0:
		return fmt.Errorf("%w: cheat_days=%d", ErrNegativeCounter, p.CheatDays)
	}
	if p.XPForNextLevel <= 0 {
		return fmt.Errorf("model: xp_for_next_level must be positive, got %d", p.XPForNextLevel)
	}
	return nil
}

// Snapshot is everything that gets persisted: the ordered habit list, the profile and the
// companion credential.
type Snapshot struct {
	Habits  []Habit
	Profile Profile
	APIKey  string
}

// Clone returns a copy whose habit slice does not alias s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Habits = make([]Habit, len(s.Habits))
	copy(out.Habits, s.Habits)
	return out
}

// IndexOf returns the position of the habit with the given id, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i, h := range s.Habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
