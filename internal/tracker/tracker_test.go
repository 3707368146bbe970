package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memStore struct {
	snap    model.Snapshot
	stored  bool
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Load(_ context.Context, defaults model.Profile) (model.Snapshot, error) {
	if m.loadErr != nil {
		return model.Snapshot{}, m.loadErr
	}
	if !m.stored {
		return model.Snapshot{Profile: defaults}, nil
	}
	return m.snap.Clone(), nil
}

func (m *memStore) Save(_ context.Context, snap model.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	m.stored = true
	m.saves++
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time   { return c.t }
func (c *clock) advance(days int) { c.t = c.t.AddDate(0, 0, days) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func newTestTracker(t *testing.T) (*Tracker, *memStore, *clock) {
	t.Helper()
	store := &memStore{}
	clk := &clock{t: day(2026, 3, 10)}
	seq := 0
	tr := New(store,
		WithClock(clk.now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("h-%d", seq)
		}),
	)
	require.NoError(t, tr.Load(context.Background()))
	return tr, store, clk
}

func names(tr *Tracker) []string {
	snap := tr.Snapshot()
	out := make([]string, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		out = append(out, h.Name)
	}
	return out
}

func TestLoadRecomputesThreshold(t *testing.T) {
	store := &memStore{stored: true, snap: model.Snapshot{
		Profile: model.Profile{XP: 260, Level: 2, CurrentLevelXP: 40, XPForNextLevel: 9999},
		Habits:  []model.Habit{{Name: "legacy", CreatedAt: day(2026, 3, 1)}},
	}}
	tr := New(store, WithClock(func() time.Time { return day(2026, 3, 10) }), WithIDGenerator(func() string { return "fixed" }))
	require.NoError(t, tr.Load(context.Background()))

	p := tr.Profile()
	require.Equal(t, 144, p.XPForNextLevel)
	h, ok := tr.Habit("fixed")
	require.True(t, ok)
	require.Equal(t, engine.BaseXPPerHabit, h.BaseXPValue)
}

func TestLoadRepairsInvalidProfile(t *testing.T) {
	store := &memStore{stored: true, snap: model.Snapshot{
		Profile: model.Profile{XP: -5, Level: 1, CurrentLevelXP: -3, XPForNextLevel: 0, LoginStreak: -2, CheatDays: -1},
	}}
	core, logs := observer.New(zapcore.WarnLevel)
	tr := New(store, WithClock(func() time.Time { return day(2026, 3, 10) }), WithLogger(zap.New(core)))
	require.NoError(t, tr.Load(context.Background()))

	require.Equal(t, 1, logs.FilterMessage("repairing stored profile").Len())
	p := tr.Profile()
	require.NoError(t, p.Validate())
	require.Zero(t, p.XP)
	require.Zero(t, p.LoginStreak)
	require.Zero(t, p.CheatDays)
	require.Equal(t, engine.ThresholdFor(1), p.XPForNextLevel)
}

func TestLoadValidProfileDoesNotWarn(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tr := New(&memStore{}, WithClock(func() time.Time { return day(2026, 3, 10) }), WithLogger(zap.New(core)))
	require.NoError(t, tr.Load(context.Background()))
	require.Zero(t, logs.Len())
}

func TestLoadError(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk gone")}
	tr := New(store)
	require.Error(t, tr.Load(context.Background()))
}

func TestAddHabit(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	ctx := context.Background()

	events, err := tr.AddHabit(ctx, "  Read 10 pages  ")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, engine.EventHabitAdded, events[0].Kind)
	require.Equal(t, "Read 10 pages", events[0].HabitName)
	require.Equal(t, "h-1", events[0].HabitID)
	require.Equal(t, 1, store.saves)

	h, ok := tr.Habit("h-1")
	require.True(t, ok)
	require.Equal(t, engine.BaseXPPerHabit, h.BaseXPValue)
	require.Zero(t, h.Streak)
	require.False(t, h.CompletedToday)

	_, err = tr.AddHabit(ctx, "   ")
	require.ErrorIs(t, err, model.ErrEmptyName)
	require.Equal(t, 1, store.saves)
}

func TestRenameHabit(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	ctx := context.Background()
	_, err := tr.AddHabit(ctx, "Run")
	require.NoError(t, err)

	events, err := tr.RenameHabit(ctx, "h-1", "Run 5k")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, engine.EventHabitEdited, events[0].Kind)
	require.Equal(t, "Run", events[0].OldName)
	require.Equal(t, "Run 5k", events[0].HabitName)

	saves := store.saves
	events, err = tr.RenameHabit(ctx, "h-1", " Run 5k ")
	require.NoError(t, err)
	require.Empty(t, events)
	require.Equal(t, saves, store.saves)

	_, err = tr.RenameHabit(ctx, "h-1", "")
	require.ErrorIs(t, err, model.ErrEmptyName)

	_, err = tr.RenameHabit(ctx, "nope", "x")
	require.ErrorIs(t, err, ErrHabitNotFound)
}

func TestToggleAwardsAndRemovesXP(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()
	_, err := tr.AddHabit(ctx, "Meditate")
	require.NoError(t, err)

	events, err := tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)
	require.Equal(t, engine.EventHabitCompleted, events[len(events)-1].Kind)
	require.Equal(t, 12, tr.Profile().XP)

	h, _ := tr.Habit("h-1")
	require.True(t, h.CompletedToday)
	require.Equal(t, 1, h.Streak)
	require.Equal(t, "2026-03-10", h.LastCompletedDate)

	events, err = tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)
	require.Equal(t, engine.EventHabitUncompleted, events[len(events)-1].Kind)
	require.Zero(t, tr.Profile().XP)

	_, err = tr.ToggleHabit(ctx, "missing")
	require.ErrorIs(t, err, ErrHabitNotFound)
}

func TestDeleteReversesAward(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()
	_, err := tr.AddHabit(ctx, "Journal")
	require.NoError(t, err)
	_, err = tr.AddHabit(ctx, "Walk")
	require.NoError(t, err)

	_, err = tr.AwardXP(ctx, 37)
	require.NoError(t, err)
	_, err = tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)
	require.Equal(t, 49, tr.Profile().XP)

	events, err := tr.DeleteHabit(ctx, "h-1")
	require.NoError(t, err)
	last := events[len(events)-1]
	require.Equal(t, engine.EventHabitDeleted, last.Kind)
	require.Equal(t, -12, last.XP)
	require.Equal(t, 37, tr.Profile().XP)
	require.Equal(t, []string{"Walk"}, names(tr))

	// deleting a habit that was not completed today leaves XP alone
	_, err = tr.DeleteHabit(ctx, "h-2")
	require.NoError(t, err)
	require.Equal(t, 37, tr.Profile().XP)
	require.Empty(t, names(tr))

	_, err = tr.DeleteHabit(ctx, "h-2")
	require.ErrorIs(t, err, ErrHabitNotFound)
}

func TestDeleteCanLevelDown(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()
	_, err := tr.AddHabit(ctx, "Pushups")
	require.NoError(t, err)
	_, err = tr.AwardXP(ctx, 95)
	require.NoError(t, err)

	events, err := tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)
	require.Equal(t, engine.EventLevelUp, events[0].Kind)
	require.Equal(t, 1, tr.Profile().Level)

	events, err = tr.DeleteHabit(ctx, "h-1")
	require.NoError(t, err)
	require.Equal(t, engine.EventLevelDown, events[0].Kind)
	p := tr.Profile()
	require.Equal(t, 0, p.Level)
	require.Equal(t, 95, p.XP)
	require.Equal(t, 95, p.CurrentLevelXP)
	require.Equal(t, 100, p.XPForNextLevel)
}

func TestMoveAndReorder(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c", "d"} {
		_, err := tr.AddHabit(ctx, n)
		require.NoError(t, err)
	}

	require.NoError(t, tr.MoveUp(ctx, "h-3"))
	require.Equal(t, []string{"a", "c", "b", "d"}, names(tr))
	require.NoError(t, tr.MoveDown(ctx, "h-1"))
	require.Equal(t, []string{"c", "a", "b", "d"}, names(tr))

	saves := store.saves
	require.NoError(t, tr.MoveUp(ctx, "h-3"))
	require.NoError(t, tr.MoveDown(ctx, "h-4"))
	require.Equal(t, saves, store.saves)
	require.Equal(t, []string{"c", "a", "b", "d"}, names(tr))

	require.NoError(t, tr.Reorder(ctx, 3, 0))
	require.Equal(t, []string{"d", "c", "a", "b"}, names(tr))
	require.NoError(t, tr.Reorder(ctx, 0, 2))
	require.Equal(t, []string{"c", "a", "d", "b"}, names(tr))

	require.ErrorIs(t, tr.Reorder(ctx, 0, 4), ErrBadIndex)
	require.ErrorIs(t, tr.MoveUp(ctx, "zzz"), ErrHabitNotFound)
	stored := make([]string, 0, len(store.snap.Habits))
	for _, h := range store.snap.Habits {
		stored = append(stored, h.Name)
	}
	require.Equal(t, []string{"c", "a", "d", "b"}, stored)
}

func TestStartDayResetsAndLogsIn(t *testing.T) {
	tr, store, clk := newTestTracker(t)
	ctx := context.Background()

	events, err := tr.StartDay(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, engine.EventDailyLogin, events[0].Kind)
	require.Equal(t, 5, tr.Profile().XP)
	require.Equal(t, 1, tr.Profile().LoginStreak)

	_, err = tr.AddHabit(ctx, "Floss")
	require.NoError(t, err)
	_, err = tr.AddHabit(ctx, "Code")
	require.NoError(t, err)
	_, err = tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)
	_, err = tr.ToggleHabit(ctx, "h-2")
	require.NoError(t, err)

	saves := store.saves
	events, err = tr.StartDay(ctx)
	require.NoError(t, err)
	require.Empty(t, events)
	require.Equal(t, saves, store.saves)

	clk.advance(1)
	_, err = tr.ToggleHabit(ctx, "h-1") // still flagged from yesterday: this unchecks
	require.NoError(t, err)
	_, err = tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)

	clk.advance(1)
	events, err = tr.StartDay(ctx)
	require.NoError(t, err)
	require.Equal(t, engine.EventDailyReset, events[0].Kind)
	require.Equal(t, 1, events[0].Maintained)
	require.Equal(t, 1, events[0].Broken)
	require.Equal(t, engine.EventDailyLogin, events[len(events)-1].Kind)
	require.Equal(t, 1, tr.Profile().LoginStreak)
	require.Equal(t, saves+3, store.saves)

	code, _ := tr.Habit("h-2")
	require.True(t, code.PendingCheat)
	require.Equal(t, 1, code.PrevStreak)
	require.Zero(t, code.Streak)
	for _, h := range tr.Snapshot().Habits {
		require.False(t, h.CompletedToday)
	}
}

func TestUseCheatDay(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	ctx := context.Background()
	_, err := tr.AddHabit(ctx, "Study")
	require.NoError(t, err)
	_, err = tr.ToggleHabit(ctx, "h-1")
	require.NoError(t, err)

	clk.advance(2)
	_, err = tr.StartDay(ctx)
	require.NoError(t, err)

	_, err = tr.UseCheatDay(ctx, "h-1")
	var insufficient *engine.InsufficientXPError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 50, insufficient.Need)

	_, err = tr.AwardXP(ctx, 50-tr.Profile().XP)
	require.NoError(t, err)
	events, err := tr.UseCheatDay(ctx, "h-1")
	require.NoError(t, err)
	require.Equal(t, engine.EventCheatDayUsed, events[len(events)-1].Kind)

	h, _ := tr.Habit("h-1")
	require.Equal(t, 1, h.Streak)
	require.False(t, h.PendingCheat)
	require.Equal(t, "2026-03-11", h.LastCompletedDate)
	require.Zero(t, tr.Profile().XP)
	require.Equal(t, 1, tr.Profile().CheatDays)

	_, err = tr.UseCheatDay(ctx, "h-1")
	require.ErrorIs(t, err, engine.ErrNoPendingCheat)
}

func TestAwardZeroStillSaves(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	events, err := tr.AwardXP(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, events)
	require.Equal(t, 1, store.saves)
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	ctx := context.Background()
	_, err := tr.AddHabit(ctx, "Read")
	require.NoError(t, err)
	before := tr.Snapshot()

	store.saveErr = errors.New("disk full")
	_, err = tr.ToggleHabit(ctx, "h-1")
	require.ErrorIs(t, err, store.saveErr)
	_, err = tr.AddHabit(ctx, "Write")
	require.Error(t, err)
	_, err = tr.DeleteHabit(ctx, "h-1")
	require.Error(t, err)
	require.Error(t, tr.SetAPIKey(ctx, "k"))

	require.Equal(t, before, tr.Snapshot())
}

func TestAPIKey(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	ctx := context.Background()

	require.ErrorIs(t, tr.SetAPIKey(ctx, ""), ErrEmptyKey)
	require.NoError(t, tr.SetAPIKey(ctx, "secret"))
	require.Equal(t, "secret", tr.APIKey())
	require.Equal(t, "secret", store.snap.APIKey)

	require.NoError(t, tr.ClearAPIKey(ctx))
	require.Empty(t, tr.APIKey())
	require.Empty(t, store.snap.APIKey)
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, err := tr.AddHabit(context.Background(), "Read")
	require.NoError(t, err)

	snap := tr.Snapshot()
	snap.Habits[0].Name = "mutated"
	h, _ := tr.Habit("h-1")
	require.Equal(t, "Read", h.Name)
}

func TestNotice(t *testing.T) {
	cases := []struct {
		ev   engine.Event
		want string
	}{
		{engine.Event{Kind: engine.EventLevelUp, Level: 3, Title: "Routine Ranger"}, "LEVEL UP! You are now Level 3: Routine Ranger! 🎉"},
		{engine.Event{Kind: engine.EventHabitCompleted, HabitName: "Run", XP: 15, Streak: 5}, "+15 XP for Run (streak 5)"},
		{engine.Event{Kind: engine.EventHabitDeleted, HabitName: "Run", XP: -12}, "Deleted Run (-12 XP)"},
		{engine.Event{Kind: engine.EventHabitDeleted, HabitName: "Run"}, "Deleted Run"},
		{engine.Event{Kind: engine.EventDailyReset}, "New day, fresh start."},
		{engine.Event{Kind: engine.EventDailyReset, Maintained: 2, Broken: 1}, "New day! 2 streaks kept, 1 broken."},
		{engine.Event{Kind: engine.EventDailyLogin, XP: 5, LoginStreak: 4}, "Daily login +5 XP (login streak 4)"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Notice(tc.ev))
	}
}
