package update

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/companion"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/prompts"
	"github.com/sandeepkv93/habitd/internal/views"
	"go.uber.org/zap"
)

func waitForRemarkCmd(ch <-chan companion.Remark) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return RemarkMsg{Remark: r}
	}
}

func (m Model) waitForRemark() tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	return waitForRemarkCmd(m.dispatcher.C())
}

// askCompanion starts a remark about ev. A request already in flight wins and ev is dropped.
func (m Model) askCompanion(ev engine.Event) (Model, tea.Cmd) {
	if m.dispatcher == nil {
		return m, nil
	}
	p := m.tracker.Profile()
	prompt, ok := prompts.ForEvent(ev, prompts.Input{
		Companion: m.companionName,
		Level:     p.Level,
		Today:     model.DayString(m.tracker.Now()),
	})
	if !ok {
		return m, nil
	}

	err := m.dispatcher.Dispatch(m.ctx, m.tracker.APIKey(), ev.Kind, prompt)
	switch {
	case err == nil:
		m.Companion.Thinking = true
		m.Companion.Kind = ev.Kind
		return m, m.thinking.Tick
	case errors.Is(err, companion.ErrMissingKey):
		m.setCompanionText(companion.UserMessage(err), true)
		if !m.Companion.KeyPromptDismissed && m.Modal.Kind == ModalNone {
			m.openAPIKeyModal("")
		}
	case errors.Is(err, companion.ErrBusy):
		// The remark panel stays reserved for the request already in flight.
		msg := companion.UserMessage(err)
		m.setStatus(msg, false)
		m.notify(m.companionName, msg, "companion")
		m.log.Debug("companion busy, remark skipped", zap.String("event", string(ev.Kind)))
	default:
		m.log.Warn("companion dispatch", zap.Error(err))
	}
	return m, nil
}

func (m Model) handleRemark(r companion.Remark) (Model, tea.Cmd) {
	m.Companion.Thinking = false
	m.Companion.Kind = r.Kind
	if r.Err == nil {
		m.setCompanionText(r.Text, false)
		m.notify(m.companionName, r.Text, "companion")
		return m, nil
	}

	msg := companion.UserMessage(r.Err)
	m.setCompanionText(msg, true)
	m.notify(m.companionName, msg, "error")
	if r.InvalidateKey {
		if err := m.tracker.ClearAPIKey(m.ctx); err != nil {
			m.fail("clear api key", err)
		}
		m.Companion.KeyPromptDismissed = false
		if m.Modal.Kind == ModalNone {
			m.openAPIKeyModal("That key was rejected. Please enter a valid one.")
		}
	}
	return m, nil
}

func (m *Model) setCompanionText(text string, isErr bool) {
	m.Companion.Text = text
	m.Companion.IsError = isErr
	if isErr {
		m.Companion.Rendered = text
		return
	}
	m.Companion.Rendered = views.RenderMarkdown(text)
	m.remarkView.GotoTop()
}

func (m Model) listModelsCmd() tea.Cmd {
	d := m.dispatcher
	ctx := m.ctx
	key := m.tracker.APIKey()
	return func() tea.Msg {
		models, err := d.ListModels(ctx, key)
		return ModelsMsg{Models: models, Err: err}
	}
}

func (m Model) handleModels(msg ModelsMsg) Model {
	if msg.Err != nil {
		m.fail("list models", msg.Err)
		if errors.Is(msg.Err, companion.ErrInvalidAPIKey) {
			if err := m.tracker.ClearAPIKey(m.ctx); err != nil {
				m.fail("clear api key", err)
			}
			m.Companion.KeyPromptDismissed = false
			if m.Modal.Kind == ModalNone {
				m.openAPIKeyModal("That key was rejected. Please enter a valid one.")
			}
		}
		return m
	}
	m.Companion.Models = msg.Models
	m.setStatus("models loaded", false)
	return m
}

func (m Model) currentModel() string {
	if m.dispatcher == nil {
		return ""
	}
	return m.dispatcher.Model()
}

func (m Model) renderCompanionPanel() string {
	level := m.tracker.Profile().Level
	avatar := engine.AvatarFor(level)
	return views.RenderCompanionPanel(views.CompanionPanelData{
		Name:        m.companionName,
		Attitude:    engine.Attitude(level),
		Avatar:      avatar.Attitude + " (" + avatar.File + ")",
		Model:       m.currentModel(),
		Thinking:    m.Companion.Thinking,
		SpinnerView: m.thinking.View(),
		RemarkView:  m.remarkView.View(),
		IsError:     m.Companion.IsError,
		HasKey:      m.tracker.APIKey() != "",
	})
}

func (m Model) renderModels() string {
	current := m.currentModel()
	out := make([]views.ModelData, 0, len(m.Companion.Models))
	for _, mi := range m.Companion.Models {
		out = append(out, views.ModelData{ID: mi.ID, DisplayName: mi.DisplayName, Current: mi.ID == current})
	}
	return views.RenderModels(out)
}
