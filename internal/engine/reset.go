package engine

import (
	"time"

	"github.com/sandeepkv93/habitd/internal/model"
)

type ResetSummary struct {
	Broken     int
	Maintained int
}

func (s ResetSummary) Event() Event {
	return Event{Kind: EventDailyReset, Broken: s.Broken, Maintained: s.Maintained}
}

// DailyReset runs the once-per-day rollover. It reports false, and changes nothing, when the
// profile was already reset on the day containing now.
func DailyReset(p model.Profile, habits []model.Habit, now time.Time, rules Rules) (model.Profile, []model.Habit, ResetSummary, bool) {
	today := model.DayString(now)
	if p.LastDailyReset == today {
		return p, habits, ResetSummary{}, false
	}
	yesterday := model.Yesterday(now)

	var summary ResetSummary
	out := make([]model.Habit, len(habits))
	for i, h := range habits {
		// a buyback window only lasts until the next rollover
		h.PendingCheat = false
		h.PrevStreak = 0

		if h.LastCompletedDate != yesterday {
			if h.Streak > 0 && h.CreatedDay(now.Location()) < today {
				summary.Broken++
				if rules.CheatDays {
					h.PendingCheat = true
					h.PrevStreak = h.Streak
				}
				h.Streak = 0
			}
		} else if h.Streak > 0 {
			summary.Maintained++
		}
		h.CompletedToday = false
		out[i] = h
	}

	p.LastDailyReset = today
	return p, out, summary, true
}

// DailyLogin counts the first launch of a calendar day and awards the login bonus.
func DailyLogin(p model.Profile, now time.Time, rules Rules) (model.Profile, []Event, bool) {
	today := model.DayString(now)
	if p.LastLoginDate == today {
		return p, nil, false
	}
	if p.LastLoginDate == model.Yesterday(now) {
		p.LoginStreak++
	} else {
		p.LoginStreak = 1
	}
	p.LastLoginDate = today

	p, events := ApplyXPDelta(p, XPForDailyLogin, rules)
	events = append(events, Event{
		Kind:        EventDailyLogin,
		Level:       p.Level,
		Title:       Title(p.Level),
		XP:          XPForDailyLogin,
		LoginStreak: p.LoginStreak,
	})
	return p, events, true
}
