package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"github.com/sandeepkv93/habitd/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return StartDayMsg{} },
		m.waitForScheduler(),
		m.waitForRemark(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil
	case spinner.TickMsg:
		if m.Companion.Thinking {
			var cmd tea.Cmd
			m.thinking, cmd = m.thinking.Update(typed)
			return m, cmd
		}
		return m, nil
	case StartDayMsg:
		next, cmd := m.startDay()
		if next.tracker.APIKey() == "" && !next.Companion.KeyPromptDismissed && next.Modal.Kind == ModalNone {
			next.openAPIKeyModal("")
		}
		return next, cmd
	case SchedulerMsg:
		switch typed.Event.Kind {
		case scheduler.KindDayRollover:
			m.log.Info("day rollover")
			next, cmd := m.startDay()
			return next, tea.Batch(cmd, next.waitForScheduler())
		case scheduler.KindStatusExpiry:
			m.Status = StatusBar{}
		}
		return m, m.waitForScheduler()
	case RemarkMsg:
		next, cmd := m.handleRemark(typed.Remark)
		return next, tea.Batch(cmd, next.waitForRemark())
	case ModelsMsg:
		return m.handleModels(typed), nil
	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail("app", typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Modal.Kind != ModalNone {
		return m.handleModalKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch keyStr {
	case m.Keys.Palette:
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.setStatus("command palette active", false)
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Up, "up":
		m.Cursor--
		return m, nil
	case m.Keys.Down, "down":
		m.Cursor++
		return m, nil
	case "g", "home":
		m.Cursor = 0
		return m, nil
	case "G", "end":
		m.Cursor = len(m.habitRows()) - 1
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.remarkView, cmd = m.remarkView.Update(msg)
		return m, cmd
	case m.Keys.Toggle, "enter", "x":
		return m.toggleSelected()
	case m.Keys.Add:
		m.openNameModal(ModalAddHabit, "", "")
		return m, nil
	case m.Keys.Rename:
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		m.openNameModal(ModalRenameHabit, h.ID, h.Name)
		return m, nil
	case m.Keys.Delete:
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		m.Modal = ModalState{Kind: ModalConfirmDelete, HabitID: h.ID}
		return m, nil
	case m.Keys.MoveUp:
		return m.moveSelected(-1), nil
	case m.Keys.MoveDown:
		return m.moveSelected(1), nil
	case m.Keys.Cheat:
		return m.cheatSelected()
	case m.Keys.APIKey:
		m.openAPIKeyModal("")
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	pane := views.DefaultPaneWidth
	if width > 0 {
		pane = max(36, min(80, width/2-4))
	}
	m.paneWidth = pane
	m.habitList.SetSize(pane-2, max(6, height-16))
	m.xpProgress.Width = max(20, pane-18)
	m.remarkView.Width = pane - 2
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	rightPane := m.renderCompanionPanel()
	if models := m.renderModels(); models != "" {
		rightPane += "\n\n" + models
	}
	if help := m.renderHelpIfVisible(); help != "" {
		rightPane += "\n\n" + help
	}

	footer := fmt.Sprintf("keys: %s/%s move | x toggle | %s add | %s rename | %s delete | %s cheat | %s key | %s cmd | %s help | %s quit",
		m.Keys.Down, m.Keys.Up, m.Keys.Add, m.Keys.Rename, m.Keys.Delete, m.Keys.Cheat, m.Keys.APIKey, m.Keys.Palette, m.Keys.Help, m.Keys.Quit)
	if m.Palette.Active {
		footer = m.commandInput.View()
	}

	return views.RenderApp(views.AppData{
		Header:       views.HeaderLine(m.profileData(), m.companionName),
		LeftPane:     m.renderHabitPanel(),
		RightPane:    strings.TrimSpace(rightPane),
		Modal:        m.renderModal(),
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer:       footer,
		PaneWidth:    m.paneWidth,
	})
}

func waitForSchedulerCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerMsg{Event: ev}
	}
}

func (m Model) waitForScheduler() tea.Cmd {
	if m.Scheduler == nil {
		return nil
	}
	return waitForSchedulerCmd(m.Scheduler.C())
}
