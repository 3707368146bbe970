package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/habitd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.paletteBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Down + "/" + m.Keys.Up, Action: "move selection"},
		{Key: "space/x", Action: "toggle done today"},
		{Key: m.Keys.Add, Action: "add habit"},
		{Key: m.Keys.Rename, Action: "rename habit"},
		{Key: m.Keys.Delete, Action: "delete habit"},
		{Key: m.Keys.MoveDown + "/" + m.Keys.MoveUp, Action: "reorder habit"},
		{Key: m.Keys.Cheat, Action: "use cheat day"},
		{Key: m.Keys.APIKey, Action: "set API key"},
		{Key: "pgup/pgdown", Action: "scroll remark"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) paletteBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "add <name>", Action: "add a habit"},
		{Key: "rename <target> <name>", Action: "rename a habit"},
		{Key: "done|delete|cheat [target]", Action: "act on a habit (selected, position or name)"},
		{Key: "move [target] up|down|<pos>", Action: "reorder"},
		{Key: "key <key>|clear", Action: "set or clear the API key"},
		{Key: "model <id>", Action: "switch companion model"},
		{Key: "models", Action: "list available models"},
		{Key: "xp <amount>", Action: "adjust XP by hand"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
