package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyName      = errors.New("model: habit name is required")
	ErrInvalidXPValue = errors.New("model: invalid habit xp value")
	ErrInvalidStreak  = errors.New("model: invalid habit streak")
)

// Habit is one user-created habit. Its position in Snapshot.Habits is its display order.
type Habit struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"createdAt"`
	BaseXPValue       int       `json:"baseXpValue"`
	CompletedToday    bool      `json:"completedToday"`
	Streak            int       `json:"streak"`
	LastCompletedDate string    `json:"lastCompletedDate,omitempty"`
	PendingCheat      bool      `json:"pendingCheat,omitempty"`
	PrevStreak        int       `json:"prevStreak,omitempty"`
}

// NormalizeName trims a user-entered habit name and rejects blanks.
func NormalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrEmptyName
	}
	return n, nil
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if h.BaseXPValue <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidXPValue, h.BaseXPValue)
	}
	if h.Streak < 0 || h.PrevStreak < 0 {
		return fmt.Errorf("%w: streak=%d prev=%d", ErrInvalidStreak, h.Streak, h.PrevStreak)
	}
	if h.CreatedAt.IsZero() {
		return errors.New("model: habit created_at is required")
	}
	if h.LastCompletedDate != "" {
		if _, err := ParseDay(h.LastCompletedDate); err != nil {
			return fmt.Errorf("model: habit last completed date: %w", err)
		}
	}
	return nil
}

// CreatedDay is the calendar day the habit was created on, as seen from loc.
func (h Habit) CreatedDay(loc *time.Location) string {
	if loc == nil {
		return DayString(h.CreatedAt)
	}
	return DayString(h.CreatedAt.In(loc))
}
