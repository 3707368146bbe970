package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/model"
	"go.uber.org/zap"
)

var (
	ErrHabitNotFound = errors.New("tracker: habit not found")
	ErrEmptyKey      = errors.New("tracker: api key is required")
	ErrBadIndex      = errors.New("tracker: index out of range")
)

// Store persists whole snapshots. storage.SQLiteRepository satisfies it.
type Store interface {
	Load(ctx context.Context, defaults model.Profile) (model.Snapshot, error)
	Save(ctx context.Context, snap model.Snapshot) error
}

// Tracker owns the habit list and the profile. Every mutating call computes the next
// snapshot from a copy, saves it and only then makes it current, so a failed save leaves
// both memory and disk untouched. A Tracker is not safe for concurrent use.
type Tracker struct {
	store Store
	now   func() time.Time
	rules engine.Rules
	log   *zap.Logger
	newID func() string

	state model.Snapshot
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func WithRules(rules engine.Rules) Option {
	return func(t *Tracker) { t.rules = rules }
}

func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) {
		if newID != nil {
			t.newID = newID
		}
	}
}

func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		rules: engine.DefaultRules(),
		log:   zap.NewNop(),
		newID: newHabitID,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state = model.Snapshot{
		Habits:  []model.Habit{},
		Profile: engine.NewProfile(model.DayString(t.now())),
	}
	return t
}

// newHabitID returns a time-ordered UUID so ids sort by creation.
func newHabitID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (t *Tracker) Rules() engine.Rules { return t.rules }

func (t *Tracker) Now() time.Time { return t.now() }

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() model.Snapshot { return t.state.Clone() }

func (t *Tracker) Profile() model.Profile { return t.state.Profile }

func (t *Tracker) APIKey() string { return t.state.APIKey }

func (t *Tracker) Habit(id string) (model.Habit, bool) {
	idx := t.state.IndexOf(id)
	if idx < 0 {
		return model.Habit{}, false
	}
	return t.state.Habits[idx], true
}

// Load replaces the in-memory state with the stored snapshot. Stored thresholds are
// recomputed from the level and habits missing an id or base value are repaired.
func (t *Tracker) Load(ctx context.Context) error {
	defaults := engine.NewProfile(model.DayString(t.now()))
	snap, err := t.store.Load(ctx, defaults)
	if err != nil {
		return fmt.Errorf("tracker: load: %w", err)
	}
	if err := snap.Profile.Validate(); err != nil {
		t.log.Warn("repairing stored profile", zap.Error(err))
	}
	snap.Profile = engine.Normalize(snap.Profile)
	if snap.Habits == nil {
		snap.Habits = []model.Habit{}
	}
	for i := range snap.Habits {
		h := &snap.Habits[i]
		if h.ID == "" {
			h.ID = t.newID()
			t.log.Warn("repaired habit without id", zap.String("habit_id", h.ID), zap.String("name", h.Name))
		}
		if h.BaseXPValue <= 0 {
			h.BaseXPValue = engine.BaseXPPerHabit
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = t.now()
		}
	}
	t.state = snap
	t.log.Debug("state loaded",
		zap.Int("habits", len(snap.Habits)),
		zap.Int("level", snap.Profile.Level),
		zap.Int("xp", snap.Profile.XP),
	)
	return nil
}

// StartDay runs the daily reset and the daily login for the current day and saves both in
// one write. It is a no-op on a day that was already started.
func (t *Tracker) StartDay(ctx context.Context) ([]engine.Event, error) {
	now := t.now()
	next := t.state.Clone()

	var events []engine.Event
	profile, habits, summary, reset := engine.DailyReset(next.Profile, next.Habits, now, t.rules)
	if reset {
		next.Profile, next.Habits = profile, habits
		events = append(events, summary.Event())
	}
	profile, loginEvents, loggedIn := engine.DailyLogin(next.Profile, now, t.rules)
	if loggedIn {
		next.Profile = profile
		events = append(events, loginEvents...)
	}
	if !reset && !loggedIn {
		return nil, nil
	}
	if err := t.commit(ctx, "start day", next); err != nil {
		return nil, err
	}
	t.log.Info("day started",
		zap.String("day", model.DayString(now)),
		zap.Bool("reset", reset),
		zap.Int("broken", summary.Broken),
		zap.Int("maintained", summary.Maintained),
		zap.Int("login_streak", next.Profile.LoginStreak),
	)
	return events, nil
}

func (t *Tracker) AddHabit(ctx context.Context, name string) ([]engine.Event, error) {
	name, err := model.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	h := model.Habit{
		ID:          t.newID(),
		Name:        name,
		CreatedAt:   t.now(),
		BaseXPValue: engine.BaseXPPerHabit,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	next := t.state.Clone()
	next.Habits = append(next.Habits, h)
	if err := t.commit(ctx, "add habit", next); err != nil {
		return nil, err
	}
	t.log.Info("habit added", zap.String("habit_id", h.ID), zap.String("name", h.Name))
	return []engine.Event{t.habitEvent(engine.EventHabitAdded, h)}, nil
}

// RenameHabit changes a habit's name. Renaming to the same name saves nothing and reports
// no event.
func (t *Tracker) RenameHabit(ctx context.Context, id, name string) ([]engine.Event, error) {
	name, err := model.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	next := t.state.Clone()
	idx := next.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	old := next.Habits[idx].Name
	if old == name {
		return nil, nil
	}
	next.Habits[idx].Name = name
	if err := t.commit(ctx, "rename habit", next); err != nil {
		return nil, err
	}
	ev := t.habitEvent(engine.EventHabitEdited, next.Habits[idx])
	ev.OldName = old
	return []engine.Event{ev}, nil
}

// DeleteHabit removes a habit. If it was completed today the XP it awarded is taken back.
func (t *Tracker) DeleteHabit(ctx context.Context, id string) ([]engine.Event, error) {
	next := t.state.Clone()
	idx := next.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	h := next.Habits[idx]

	var events []engine.Event
	refund := 0
	if h.CompletedToday {
		refund = engine.CompletionValue(h)
		next.Profile, events = engine.ApplyXPDelta(next.Profile, -refund, t.rules)
	}
	next.Habits = append(next.Habits[:idx], next.Habits[idx+1:]...)
	if err := t.commit(ctx, "delete habit", next); err != nil {
		return nil, err
	}
	t.log.Info("habit deleted", zap.String("habit_id", h.ID), zap.Int("xp_removed", refund))
	ev := t.habitEvent(engine.EventHabitDeleted, h)
	ev.XP = -refund
	return append(events, ev), nil
}

func (t *Tracker) ToggleHabit(ctx context.Context, id string) ([]engine.Event, error) {
	next := t.state.Clone()
	idx := next.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	profile, habit, events := engine.ToggleHabit(next.Profile, next.Habits[idx], t.now(), t.rules)
	next.Profile = profile
	next.Habits[idx] = habit
	if err := t.commit(ctx, "toggle habit", next); err != nil {
		return nil, err
	}
	t.log.Debug("habit toggled",
		zap.String("habit_id", id),
		zap.Bool("completed", habit.CompletedToday),
		zap.Int("streak", habit.Streak),
		zap.Int("xp", profile.XP),
	)
	return events, nil
}

func (t *Tracker) MoveUp(ctx context.Context, id string) error {
	idx := t.state.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	if idx == 0 {
		return nil
	}
	return t.Reorder(ctx, idx, idx-1)
}

func (t *Tracker) MoveDown(ctx context.Context, id string) error {
	idx := t.state.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	if idx == len(t.state.Habits)-1 {
		return nil
	}
	return t.Reorder(ctx, idx, idx+1)
}

// Reorder moves the habit at index from to index to, shifting the ones in between.
func (t *Tracker) Reorder(ctx context.Context, from, to int) error {
	n := len(t.state.Habits)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d of %d", ErrBadIndex, from, to, n)
	}
	if from == to {
		return nil
	}
	next := t.state.Clone()
	h := next.Habits[from]
	next.Habits = append(next.Habits[:from], next.Habits[from+1:]...)
	next.Habits = append(next.Habits[:to], append([]model.Habit{h}, next.Habits[to:]...)...)
	return t.commit(ctx, "reorder habits", next)
}

func (t *Tracker) UseCheatDay(ctx context.Context, id string) ([]engine.Event, error) {
	next := t.state.Clone()
	idx := next.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	profile, habit, events, err := engine.UseCheatDay(next.Profile, next.Habits[idx], t.now(), t.rules)
	if err != nil {
		return nil, err
	}
	next.Profile = profile
	next.Habits[idx] = habit
	if err := t.commit(ctx, "cheat day", next); err != nil {
		return nil, err
	}
	t.log.Info("cheat day used", zap.String("habit_id", id), zap.Int("streak", habit.Streak), zap.Int("xp", profile.XP))
	return events, nil
}

// AwardXP applies a raw signed XP amount. The result is saved even when amount is zero.
func (t *Tracker) AwardXP(ctx context.Context, amount int) ([]engine.Event, error) {
	next := t.state.Clone()
	var events []engine.Event
	next.Profile, events = engine.ApplyXPDelta(next.Profile, amount, t.rules)
	if err := t.commit(ctx, "award xp", next); err != nil {
		return nil, err
	}
	return events, nil
}

func (t *Tracker) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	next := t.state.Clone()
	next.APIKey = key
	return t.commit(ctx, "set api key", next)
}

func (t *Tracker) ClearAPIKey(ctx context.Context) error {
	if t.state.APIKey == "" {
		return nil
	}
	next := t.state.Clone()
	next.APIKey = ""
	return t.commit(ctx, "clear api key", next)
}

func (t *Tracker) commit(ctx context.Context, op string, next model.Snapshot) error {
	if err := t.store.Save(ctx, next); err != nil {
		t.log.Error("save snapshot failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("tracker: %s: %w", op, err)
	}
	t.state = next
	return nil
}

func (t *Tracker) habitEvent(kind engine.EventKind, h model.Habit) engine.Event {
	p := t.state.Profile
	return engine.Event{
		Kind:      kind,
		Level:     p.Level,
		Title:     engine.Title(p.Level),
		HabitID:   h.ID,
		HabitName: h.Name,
		Streak:    h.Streak,
	}
}
