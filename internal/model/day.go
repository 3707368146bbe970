package model

import "time"

const DayLayout = "2006-01-02"

// DayString formats t as YYYY-MM-DD in t's own location.
func DayString(t time.Time) string {
	return t.Format(DayLayout)
}

// Yesterday is the day string of the calendar day before t.
func Yesterday(t time.Time) string {
	return DayString(t.AddDate(0, 0, -1))
}

func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// NextMidnight returns the start of the calendar day after t, in t's location.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
