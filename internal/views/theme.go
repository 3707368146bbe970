package views

import "github.com/charmbracelet/lipgloss"

const (
	IconFire    = "🔥"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconSparkle = "✨"
	IconTrophy  = "🏆"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconHeart   = "💬"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	statusStyle = lipgloss.NewStyle().Foreground(cGood)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	goldStyle   = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	mutedStyle  = lipgloss.NewStyle().Foreground(cMuted)
	panelStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	modalStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.DoubleBorder()).BorderForeground(cAccent).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(cMuted)
)
