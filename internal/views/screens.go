package views

import (
	"fmt"
	"strings"
)

type ProfileData struct {
	Level          int
	Title          string
	XP             int
	CurrentLevelXP int
	XPForNextLevel int
	LoginStreak    int
	CheatDays      int
	ProgressView   string
}

type HabitRowData struct {
	Position       int
	Name           string
	CompletedToday bool
	Streak         int
	NextXP         int
	PendingCheat   bool
	PrevStreak     int
	CheatCost      int
}

type HabitPanelData struct {
	Profile  ProfileData
	ListView string
	Rows     []HabitRowData
	Selected int
}

type CompanionPanelData struct {
	Name        string
	Attitude    string
	Avatar      string
	Model       string
	Thinking    bool
	SpinnerView string
	// RemarkView is the viewport holding the glamour-rendered remark.
	RemarkView string
	IsError    bool
	HasKey     bool
}

type ModalData struct {
	Title     string
	Prompt    string
	InputView string
	ErrorText string
	Hint      string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type NotificationData struct {
	At    string
	Title string
	Body  string
	Level string
}

type ModelData struct {
	ID          string
	DisplayName string
	Current     bool
}

func HeaderLine(p ProfileData, companion string) string {
	return fmt.Sprintf("habitd %s Level %d: %s | %d XP | login streak %d | cheat days %d | companion: %s",
		IconSparkle, p.Level, p.Title, p.XP, p.LoginStreak, p.CheatDays, companion)
}

func RenderHabitPanel(data HabitPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("habits") + "\n")
	p := data.Profile
	b.WriteString(fmt.Sprintf("Level %d %s  %d/%d XP\n", p.Level, goldStyle.Render(p.Title), p.CurrentLevelXP, p.XPForNextLevel))
	if p.ProgressView != "" {
		b.WriteString(p.ProgressView + "\n")
	}
	b.WriteString("\n")
	if len(data.Rows) == 0 {
		b.WriteString(mutedStyle.Render("No habits yet. Press a to add your first one.") + "\n")
		return strings.TrimSpace(b.String())
	}
	if data.ListView != "" {
		b.WriteString(data.ListView + "\n")
	} else {
		for i, row := range data.Rows {
			prefix := "  "
			if i == data.Selected {
				prefix = "> "
			}
			b.WriteString(prefix + HabitRowTitle(row) + "\n")
		}
	}
	if data.Selected >= 0 && data.Selected < len(data.Rows) {
		b.WriteString("\n" + HabitRowDetail(data.Rows[data.Selected]) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func HabitRowTitle(row HabitRowData) string {
	mark := IconTodo
	if row.CompletedToday {
		mark = IconDone
	}
	return fmt.Sprintf("%s %d. %s", mark, row.Position, row.Name)
}

func HabitRowDescription(row HabitRowData) string {
	parts := []string{fmt.Sprintf("%s streak %d", IconFire, row.Streak)}
	if row.CompletedToday {
		parts = append(parts, "done today")
	} else {
		parts = append(parts, fmt.Sprintf("+%d XP", row.NextXP))
	}
	if row.PendingCheat {
		parts = append(parts, fmt.Sprintf("cheat day: restore %d for %d XP", row.PrevStreak, row.CheatCost))
	}
	return strings.Join(parts, " | ")
}

func HabitRowDetail(row HabitRowData) string {
	detail := HabitRowDescription(row)
	if row.PendingCheat {
		return warnStyle.Render(IconWarn+" streak broken") + "  " + detail
	}
	return mutedStyle.Render(detail)
}

func RenderCompanionPanel(data CompanionPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(IconHeart+" "+data.Name) + "\n")
	b.WriteString(mutedStyle.Render("mood: "+data.Attitude) + "\n")
	if data.Avatar != "" {
		b.WriteString(mutedStyle.Render("avatar: "+data.Avatar) + "\n")
	}
	if data.Model != "" {
		b.WriteString(mutedStyle.Render("model: "+data.Model) + "\n")
	}
	b.WriteString("\n")
	switch {
	case data.Thinking:
		b.WriteString(data.SpinnerView + " Thinking...\n")
	case !data.HasKey && data.RemarkView == "":
		b.WriteString(warnStyle.Render("No API key. Press A to set one.") + "\n")
	case data.IsError:
		b.WriteString(errorStyle.Render(data.RemarkView) + "\n")
	default:
		b.WriteString(data.RemarkView + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderModal(data ModalData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Title) + "\n")
	if data.Prompt != "" {
		b.WriteString(data.Prompt + "\n")
	}
	if data.InputView != "" {
		b.WriteString(data.InputView + "\n")
	}
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render(data.ErrorText) + "\n")
	}
	if data.Hint != "" {
		b.WriteString(mutedStyle.Render(data.Hint) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	if data.HelpView != "" {
		b.WriteString(data.HelpView + "\n")
	}
	for _, line := range data.Bindings {
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderNotifications(items []NotificationData, limit int) string {
	if len(items) == 0 || limit <= 0 {
		return ""
	}
	start := 0
	if len(items) > limit {
		start = len(items) - limit
	}
	var b strings.Builder
	for _, n := range items[start:] {
		line := fmt.Sprintf("%s %s: %s", n.At, n.Title, n.Body)
		switch n.Level {
		case "error":
			line = errorStyle.Render(line)
		case "levelup":
			line = goldStyle.Render(IconTrophy + " " + line)
		default:
			line = mutedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderModels(models []ModelData) string {
	if len(models) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("models:\n")
	for _, m := range models {
		marker := "  "
		if m.Current {
			marker = "* "
		}
		line := marker + m.ID
		if m.DisplayName != "" && m.DisplayName != m.ID {
			line += " (" + m.DisplayName + ")"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}
