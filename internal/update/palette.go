package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/commands"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.setStatus("command palette closed", false)
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.commandInput.CursorEnd()
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	var events []engine.Event
	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			evs, err := m.tracker.AddHabit(m.ctx, a.Name)
			if err != nil {
				return commands.Result{}, err
			}
			events = evs
			m.Cursor = len(m.tracker.Snapshot().Habits) - 1
			return commands.Result{Message: fmt.Sprintf("added habit: %s", strings.TrimSpace(a.Name))}, nil
		},
		Rename: func(r commands.RenameArgs) (commands.Result, error) {
			h, err := m.resolveTarget(r.Target)
			if err != nil {
				return commands.Result{}, err
			}
			evs, err := m.tracker.RenameHabit(m.ctx, h.ID, r.Name)
			if err != nil {
				return commands.Result{}, err
			}
			events = evs
			return commands.Result{Message: fmt.Sprintf("renamed %s", h.Name)}, nil
		},
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			h, err := m.resolveTarget(t.Target)
			if err != nil {
				return commands.Result{}, err
			}
			evs, err := m.tracker.DeleteHabit(m.ctx, h.ID)
			if err != nil {
				return commands.Result{}, err
			}
			events = evs
			return commands.Result{Message: fmt.Sprintf("deleted %s", h.Name)}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			h, err := m.resolveTarget(t.Target)
			if err != nil {
				return commands.Result{}, err
			}
			evs, err := m.tracker.ToggleHabit(m.ctx, h.ID)
			if err != nil {
				return commands.Result{}, err
			}
			events = evs
			return commands.Result{Message: fmt.Sprintf("toggled %s", h.Name)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			h, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			switch a.Direction {
			case commands.MoveUp:
				err = m.tracker.MoveUp(m.ctx, h.ID)
			case commands.MoveDown:
				err = m.tracker.MoveDown(m.ctx, h.ID)
			default:
				err = m.tracker.Reorder(m.ctx, m.tracker.Snapshot().IndexOf(h.ID), a.Position-1)
			}
			if err != nil {
				return commands.Result{}, err
			}
			m.Cursor = m.tracker.Snapshot().IndexOf(h.ID)
			return commands.Result{Message: fmt.Sprintf("moved %s to position %d", h.Name, m.Cursor+1)}, nil
		},
		Cheat: func(t commands.TargetArgs) (commands.Result, error) {
			h, err := m.resolveTarget(t.Target)
			if err != nil {
				return commands.Result{}, err
			}
			evs, err := m.tracker.UseCheatDay(m.ctx, h.ID)
			if err != nil {
				return commands.Result{}, err
			}
			events = evs
			return commands.Result{Message: fmt.Sprintf("cheat day used on %s", h.Name)}, nil
		},
		Key: func(k commands.KeyArgs) (commands.Result, error) {
			if k.Clear {
				if err := m.tracker.ClearAPIKey(m.ctx); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "API key cleared"}, nil
			}
			if err := m.tracker.SetAPIKey(m.ctx, k.Key); err != nil {
				return commands.Result{}, err
			}
			m.Companion.KeyPromptDismissed = false
			return commands.Result{Message: "API key saved"}, nil
		},
		Model: func(a commands.ModelArgs) (commands.Result, error) {
			if m.dispatcher == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "companion is not configured"}
			}
			m.dispatcher.SetModel(a.ID)
			return commands.Result{Message: fmt.Sprintf("companion model set to %s", a.ID)}, nil
		},
		Models: func(commands.ModelsArgs) (commands.Result, error) {
			if m.dispatcher == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "companion is not configured"}
			}
			follow = m.listModelsCmd()
			return commands.Result{Message: "fetching models..."}, nil
		},
		XP: func(a commands.XPArgs) (commands.Result, error) {
			evs, err := m.tracker.AwardXP(m.ctx, a.Amount)
			if err != nil {
				return commands.Result{}, err
			}
			events = evs
			return commands.Result{Message: fmt.Sprintf("%+d XP", a.Amount)}, nil
		},
	})
	if err != nil {
		m.fail("command "+string(cmd.Type), err)
		return m, nil
	}

	m.notify("Command", res.Message, "info")
	next, eventCmd := m.applyEvents(events)
	if len(events) == 0 {
		next.setStatus(res.Message, false)
	}
	return next, tea.Batch(eventCmd, follow)
}

// resolveTarget finds the habit a palette target names: the selected row, a 1-based
// position, or a case-insensitive name.
func (m Model) resolveTarget(t commands.Target) (model.Habit, error) {
	habits := m.tracker.Snapshot().Habits
	if t == commands.Selected || t == "" {
		if h, ok := m.selectedHabit(); ok {
			return h, nil
		}
		return model.Habit{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no habit selected"}
	}
	if pos, ok := t.Position(); ok {
		if pos > len(habits) {
			return model.Habit{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no habit at position %d", pos)}
		}
		return habits[pos-1], nil
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, string(t)) {
			return h, nil
		}
	}
	return model.Habit{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no habit named %q", string(t))}
}
