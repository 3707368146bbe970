package views

import (
	"strings"
	"testing"
)

func TestRenderAppIncludesAllSections(t *testing.T) {
	out := RenderApp(AppData{
		Header:       "habitd header",
		LeftPane:     "left pane",
		RightPane:    "right pane",
		Modal:        "modal body",
		StatusLine:   "status: fine",
		Notification: "note",
		Footer:       "keys",
	})
	for _, want := range []string{"habitd header", "left pane", "right pane", "modal body", "status: fine", "note", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderAppSkipsEmptyOptionalSections(t *testing.T) {
	out := RenderApp(AppData{Header: "h", LeftPane: "l", RightPane: "r"})
	if strings.Count(out, "\n") > 8 {
		t.Fatalf("unexpected extra sections: %q", out)
	}
}

func TestRenderHabitPanelEmptyState(t *testing.T) {
	out := RenderHabitPanel(HabitPanelData{Profile: ProfileData{Level: 0, Title: "Habit Dabbler", XPForNextLevel: 100}})
	if !strings.Contains(out, "No habits yet") {
		t.Fatalf("expected empty-state hint: %q", out)
	}
	if !strings.Contains(out, "0/100 XP") {
		t.Fatalf("expected level progress: %q", out)
	}
}

func TestRenderHabitPanelRowsAndDetail(t *testing.T) {
	rows := []HabitRowData{
		{Position: 1, Name: "Read", CompletedToday: true, Streak: 3},
		{Position: 2, Name: "Run", Streak: 0, NextXP: 12, PendingCheat: true, PrevStreak: 6, CheatCost: 50},
	}
	out := RenderHabitPanel(HabitPanelData{Rows: rows, Selected: 1, Profile: ProfileData{XPForNextLevel: 100}})
	if !strings.Contains(out, "> "+IconTodo+" 2. Run") {
		t.Fatalf("expected selected marker on second row: %q", out)
	}
	if !strings.Contains(out, IconDone+" 1. Read") {
		t.Fatalf("expected completed marker on first row: %q", out)
	}
	if !strings.Contains(out, "restore 6 for 50 XP") {
		t.Fatalf("expected cheat-day detail for selected row: %q", out)
	}
}

func TestHabitRowDescription(t *testing.T) {
	done := HabitRowDescription(HabitRowData{CompletedToday: true, Streak: 4})
	if !strings.Contains(done, "streak 4") || !strings.Contains(done, "done today") {
		t.Fatalf("unexpected description: %q", done)
	}
	open := HabitRowDescription(HabitRowData{NextXP: 15, Streak: 4})
	if !strings.Contains(open, "+15 XP") {
		t.Fatalf("expected next XP in description: %q", open)
	}
}

func TestRenderCompanionPanelStates(t *testing.T) {
	thinking := RenderCompanionPanel(CompanionPanelData{Name: "Seraphina", Attitude: "hostile", Thinking: true, SpinnerView: "*", HasKey: true})
	if !strings.Contains(thinking, "Thinking...") {
		t.Fatalf("expected thinking state: %q", thinking)
	}

	noKey := RenderCompanionPanel(CompanionPanelData{Name: "Seraphina", Attitude: "hostile"})
	if !strings.Contains(noKey, "No API key") {
		t.Fatalf("expected missing key hint: %q", noKey)
	}

	remark := RenderCompanionPanel(CompanionPanelData{Name: "Seraphina", Attitude: "intrigued", RemarkView: "Not bad.", HasKey: true, Model: "gemini-2.0-flash"})
	for _, want := range []string{"Seraphina", "mood: intrigued", "Not bad.", "model: gemini-2.0-flash"} {
		if !strings.Contains(remark, want) {
			t.Fatalf("expected %q in companion panel: %q", want, remark)
		}
	}
}

func TestRenderNotificationsKeepsTail(t *testing.T) {
	items := []NotificationData{
		{At: "09:00", Title: "Habit", Body: "first"},
		{At: "09:01", Title: "Habit", Body: "second"},
		{At: "09:02", Title: "Level up", Body: "third", Level: "levelup"},
	}
	out := RenderNotifications(items, 2)
	if strings.Contains(out, "first") {
		t.Fatalf("expected oldest notification dropped: %q", out)
	}
	if !strings.Contains(out, "second") || !strings.Contains(out, "third") {
		t.Fatalf("expected newest notifications: %q", out)
	}
	if RenderNotifications(nil, 3) != "" {
		t.Fatal("expected empty output without notifications")
	}
}

func TestRenderModelsMarksCurrent(t *testing.T) {
	out := RenderModels([]ModelData{{ID: "a"}, {ID: "b", DisplayName: "Model B", Current: true}})
	if !strings.Contains(out, "* b (Model B)") || !strings.Contains(out, "  a") {
		t.Fatalf("unexpected models output: %q", out)
	}
}

func TestRenderModal(t *testing.T) {
	out := RenderModal(ModalData{Title: "New habit", InputView: "name> ", ErrorText: "Habit name cannot be empty.", Hint: "esc cancel"})
	for _, want := range []string{"New habit", "name>", "cannot be empty", "esc cancel"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in modal: %q", want, out)
		}
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if got := RenderMarkdown("   "); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
	if got := RenderMarkdown("**Hmph.**"); !strings.Contains(got, "Hmph.") {
		t.Fatalf("expected rendered text, got %q", got)
	}
}
