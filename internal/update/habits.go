package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/companion"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/sandeepkv93/habitd/internal/views"
	"go.uber.org/zap"
)

const statusExpiryID = "status-expiry"

func (m Model) habitRows() []views.HabitRowData {
	snap := m.tracker.Snapshot()
	now := m.tracker.Now()
	cost := engine.CheatCost(snap.Profile.Level)
	rows := make([]views.HabitRowData, 0, len(snap.Habits))
	for i, h := range snap.Habits {
		rows = append(rows, views.HabitRowData{
			Position:       i + 1,
			Name:           h.Name,
			CompletedToday: h.CompletedToday,
			Streak:         h.Streak,
			NextXP:         engine.NextCompletionValue(h, now),
			PendingCheat:   h.PendingCheat,
			PrevStreak:     h.PrevStreak,
			CheatCost:      cost,
		})
	}
	return rows
}

func (m Model) selectedHabit() (model.Habit, bool) {
	habits := m.tracker.Snapshot().Habits
	if m.Cursor < 0 || m.Cursor >= len(habits) {
		return model.Habit{}, false
	}
	return habits[m.Cursor], true
}

func (m Model) profileData() views.ProfileData {
	p := m.tracker.Profile()
	return views.ProfileData{
		Level:          p.Level,
		Title:          engine.Title(p.Level),
		XP:             p.XP,
		CurrentLevelXP: p.CurrentLevelXP,
		XPForNextLevel: p.XPForNextLevel,
		LoginStreak:    p.LoginStreak,
		CheatDays:      p.CheatDays,
	}
}

func (m Model) levelProgress() float64 {
	p := m.tracker.Profile()
	if p.XPForNextLevel <= 0 {
		return 0
	}
	return min(1, float64(p.CurrentLevelXP)/float64(p.XPForNextLevel))
}

func (m Model) renderHabitPanel() string {
	profile := m.profileData()
	profile.ProgressView = m.xpProgress.ViewAs(m.levelProgress())
	rows := m.habitRows()
	listView := ""
	if len(rows) > 0 {
		listView = m.habitList.View()
	}
	return views.RenderHabitPanel(views.HabitPanelData{
		Profile:  profile,
		ListView: listView,
		Rows:     rows,
		Selected: m.Cursor,
	})
}

func (m Model) startDay() (Model, tea.Cmd) {
	events, err := m.tracker.StartDay(m.ctx)
	m.scheduleRollover()
	if err != nil {
		m.fail("start day", err)
		return m, nil
	}
	return m.applyEvents(events)
}

func (m *Model) scheduleRollover() {
	if m.Scheduler == nil {
		return
	}
	ev := scheduler.NextRollover(m.tracker.Now())
	if err := m.Scheduler.Schedule(ev); err != nil {
		m.log.Warn("schedule day rollover", zap.Error(err))
		return
	}
	m.log.Debug("day rollover scheduled", zap.Time("at", ev.TriggerAt))
}

func (m Model) toggleSelected() (Model, tea.Cmd) {
	h, ok := m.selectedHabit()
	if !ok {
		return m, nil
	}
	events, err := m.tracker.ToggleHabit(m.ctx, h.ID)
	if err != nil {
		m.fail("toggle habit", err)
		return m, nil
	}
	return m.applyEvents(events)
}

func (m Model) moveSelected(delta int) Model {
	h, ok := m.selectedHabit()
	if !ok {
		return m
	}
	var err error
	if delta < 0 {
		err = m.tracker.MoveUp(m.ctx, h.ID)
	} else {
		err = m.tracker.MoveDown(m.ctx, h.ID)
	}
	if err != nil {
		m.fail("move habit", err)
		return m
	}
	if idx := m.tracker.Snapshot().IndexOf(h.ID); idx >= 0 {
		m.Cursor = idx
	}
	return m
}

func (m Model) cheatSelected() (Model, tea.Cmd) {
	h, ok := m.selectedHabit()
	if !ok {
		return m, nil
	}
	events, err := m.tracker.UseCheatDay(m.ctx, h.ID)
	if err != nil {
		m.fail("cheat day", err)
		return m, nil
	}
	return m.applyEvents(events)
}

// applyEvents surfaces the outcome of a tracker operation and hands the most interesting
// event to the companion.
func (m Model) applyEvents(events []engine.Event) (Model, tea.Cmd) {
	if len(events) == 0 {
		return m, nil
	}
	for _, ev := range events {
		title, level := noticeTitle(ev.Kind)
		m.notify(title, tracker.Notice(ev), level)
	}
	headline := events[len(events)-1]
	if ev, ok := findEvent(events, engine.EventLevelUp); ok {
		headline = ev
	}
	m.setStatus(tracker.Notice(headline), false)

	ev, ok := remarkableEvent(events)
	if !ok {
		return m, nil
	}
	return m.askCompanion(ev)
}

func findEvent(events []engine.Event, kind engine.EventKind) (engine.Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return engine.Event{}, false
}

// remarkableEvent picks the event the companion comments on: a level-up wins, otherwise
// the first remarkable one.
func remarkableEvent(events []engine.Event) (engine.Event, bool) {
	if ev, ok := findEvent(events, engine.EventLevelUp); ok {
		return ev, true
	}
	for _, ev := range events {
		if ev.Kind.Remarkable() {
			return ev, true
		}
	}
	return engine.Event{}, false
}

func noticeTitle(kind engine.EventKind) (string, string) {
	switch kind {
	case engine.EventLevelUp:
		return "Level up", "levelup"
	case engine.EventLevelDown:
		return "Level down", "leveldown"
	case engine.EventDailyLogin, engine.EventDailyReset:
		return "New day", "info"
	default:
		return "Habit", "info"
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
	if m.Scheduler == nil || m.statusTTL <= 0 || text == "" {
		return
	}
	err := m.Scheduler.Schedule(scheduler.Event{
		ID:        statusExpiryID,
		Kind:      scheduler.KindStatusExpiry,
		TriggerAt: timeNow().Add(m.statusTTL),
	})
	if err != nil {
		m.log.Debug("schedule status expiry", zap.Error(err))
	}
}

func (m *Model) fail(op string, err error) {
	m.LastError = err
	text := errorText(err)
	m.setStatus(text, true)
	m.notify("Error", text, "error")
	m.log.Warn(op+" failed", zap.Error(err))
}

// errorText is the user-facing wording for an operation failure.
func errorText(err error) string {
	var insufficient *engine.InsufficientXPError
	switch {
	case errors.As(err, &insufficient):
		return fmt.Sprintf("A cheat day costs %d XP and you only have %d.", insufficient.Need, insufficient.Have)
	case errors.Is(err, engine.ErrNoPendingCheat):
		return "That streak is not broken. No cheat day needed."
	case errors.Is(err, model.ErrEmptyName):
		return "Habit name cannot be empty."
	case errors.Is(err, tracker.ErrEmptyKey):
		return "API key cannot be empty."
	case errors.Is(err, tracker.ErrHabitNotFound):
		return "That habit no longer exists."
	case errors.Is(err, tracker.ErrBadIndex):
		return "No habit at that position."
	case errors.Is(err, companion.ErrMissingKey):
		return companion.UserMessage(err)
	default:
		return err.Error()
	}
}
