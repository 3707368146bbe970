package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/views"
)

func (m *Model) openNameModal(kind ModalKind, habitID, value string) {
	m.Modal = ModalState{Kind: kind, HabitID: habitID}
	m.nameInput.SetValue(value)
	m.nameInput.CursorEnd()
	m.nameInput.Focus()
}

// openAPIKeyModal asks for the companion credential. reason is shown above the input.
func (m *Model) openAPIKeyModal(reason string) {
	m.Modal = ModalState{Kind: ModalAPIKey, Err: reason}
	m.keyInput.SetValue("")
	m.keyInput.Focus()
}

func (m *Model) closeModal() {
	m.Modal = ModalState{}
	m.nameInput.Blur()
	m.nameInput.SetValue("")
	m.keyInput.Blur()
	m.keyInput.SetValue("")
}

func (m Model) handleModalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Modal.Kind == ModalConfirmDelete {
		return m.handleConfirmDeleteKey(msg)
	}

	switch msg.String() {
	case "esc":
		if m.Modal.Kind == ModalAPIKey {
			m.Companion.KeyPromptDismissed = true
		}
		m.closeModal()
		return m, nil
	case "enter":
		return m.submitModal()
	}

	input := &m.nameInput
	if m.Modal.Kind == ModalAPIKey {
		input = &m.keyInput
	}
	if msg.Type == tea.KeyRunes {
		input.SetValue(input.Value() + string(msg.Runes))
		input.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmDeleteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.Modal.HabitID
		m.closeModal()
		events, err := m.tracker.DeleteHabit(m.ctx, id)
		if err != nil {
			m.fail("delete habit", err)
			return m, nil
		}
		return m.applyEvents(events)
	case "n", "N", "esc":
		m.closeModal()
		m.setStatus("delete cancelled", false)
	}
	return m, nil
}

func (m Model) submitModal() (Model, tea.Cmd) {
	switch m.Modal.Kind {
	case ModalAddHabit:
		name := m.nameInput.Value()
		events, err := m.tracker.AddHabit(m.ctx, name)
		if err != nil {
			m.Modal.Err = errorText(err)
			return m, nil
		}
		m.closeModal()
		m.Cursor = len(m.tracker.Snapshot().Habits) - 1
		return m.applyEvents(events)
	case ModalRenameHabit:
		events, err := m.tracker.RenameHabit(m.ctx, m.Modal.HabitID, m.nameInput.Value())
		if err != nil {
			m.Modal.Err = errorText(err)
			return m, nil
		}
		m.closeModal()
		return m.applyEvents(events)
	case ModalAPIKey:
		if err := m.tracker.SetAPIKey(m.ctx, m.keyInput.Value()); err != nil {
			m.Modal.Err = errorText(err)
			return m, nil
		}
		m.closeModal()
		m.Companion.KeyPromptDismissed = false
		m.Companion.IsError = false
		m.setStatus("API key saved", false)
		return m, nil
	}
	m.closeModal()
	return m, nil
}

func (m Model) renderModal() string {
	switch m.Modal.Kind {
	case ModalAddHabit:
		return views.RenderModal(views.ModalData{
			Title:     "New habit",
			Prompt:    "What do you want to do every day?",
			InputView: m.nameInput.View(),
			ErrorText: m.Modal.Err,
			Hint:      "enter save | esc cancel",
		})
	case ModalRenameHabit:
		return views.RenderModal(views.ModalData{
			Title:     "Rename habit",
			InputView: m.nameInput.View(),
			ErrorText: m.Modal.Err,
			Hint:      "enter save | esc cancel",
		})
	case ModalAPIKey:
		return views.RenderModal(views.ModalData{
			Title:     "Gemini API key",
			Prompt:    fmt.Sprintf("%s needs an API key to talk to you.", m.companionName),
			InputView: m.keyInput.View(),
			ErrorText: m.Modal.Err,
			Hint:      "enter save | esc later",
		})
	case ModalConfirmDelete:
		h, _ := m.tracker.Habit(m.Modal.HabitID)
		prompt := fmt.Sprintf("Delete %q?", h.Name)
		if h.CompletedToday {
			prompt += fmt.Sprintf(" The %d XP it earned today will be taken back.", engine.CompletionValue(h))
		}
		return views.RenderModal(views.ModalData{
			Title:  "Delete habit",
			Prompt: strings.TrimSpace(prompt),
			Hint:   "y delete | n cancel",
		})
	}
	return ""
}
