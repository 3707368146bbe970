package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/habitd/internal/companion"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/prompts"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/sandeepkv93/habitd/internal/views"
	"go.uber.org/zap"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Up       string
	Down     string
	Toggle   string
	Add      string
	Rename   string
	Delete   string
	MoveUp   string
	MoveDown string
	Cheat    string
	APIKey   string
	Palette  string
	Help     string
	Quit     string
}

type ModalKind string

const (
	ModalNone          ModalKind = ""
	ModalAddHabit      ModalKind = "add"
	ModalRenameHabit   ModalKind = "rename"
	ModalAPIKey        ModalKind = "apikey"
	ModalConfirmDelete ModalKind = "confirm_delete"
)

type ModalState struct {
	Kind    ModalKind
	HabitID string
	Err     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type CompanionState struct {
	Thinking bool
	Kind     engine.EventKind
	Text     string
	// Rendered is Text after markdown rendering.
	Rendered string
	IsError  bool
	// KeyPromptDismissed stops the key modal from reopening on its own after the user closed it.
	KeyPromptDismissed bool
	Models             []companion.ModelInfo
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type RuntimeConfig struct {
	DesktopNotifications bool
	CompanionName        string
	// StatusTTL is how long a status line stays before the scheduler clears it. Zero keeps it.
	StatusTTL time.Duration
	Logger    *zap.Logger
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		CompanionName: prompts.DefaultCompanion,
		StatusTTL:     6 * time.Second,
	}
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

// StartDayMsg runs the daily reset and login for the current date.
type StartDayMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type SchedulerMsg struct {
	Event scheduler.Event
}

type RemarkMsg struct {
	Remark companion.Remark
}

type ModelsMsg struct {
	Models []companion.ModelInfo
	Err    error
}

type Model struct {
	Cursor        int
	Modal         ModalState
	Palette       CommandPaletteState
	HelpVisible   bool
	Status        StatusBar
	Notifications []Notification
	Companion     CompanionState
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	ctx            context.Context
	tracker        *tracker.Tracker
	dispatcher     *companion.Dispatcher
	Scheduler      *scheduler.Engine
	notifier       DesktopNotifier
	DesktopEnabled bool
	companionName  string
	statusTTL      time.Duration
	log            *zap.Logger
	paneWidth      int

	habitList    list.Model
	nameInput    textinput.Model
	keyInput     textinput.Model
	commandInput textinput.Model
	xpProgress   progress.Model
	thinking     spinner.Model
	helpModel    help.Model
	remarkView   viewport.Model
}

// NewModel wires the TUI to its collaborators. dispatcher, engine and notifier may be nil.
func NewModel(t *tracker.Tracker, dispatcher *companion.Dispatcher, engine *scheduler.Engine, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := Model{
		ctx:            context.Background(),
		tracker:        t,
		dispatcher:     dispatcher,
		Scheduler:      engine,
		notifier:       NoopDesktopNotifier{},
		DesktopEnabled: cfg.DesktopNotifications,
		companionName:  cfg.CompanionName,
		statusTTL:      cfg.StatusTTL,
		log:            cfg.Logger,
		Keys: GlobalKeyMap{
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Add:      "a",
			Rename:   "e",
			Delete:   "d",
			MoveUp:   "K",
			MoveDown: "J",
			Cheat:    "c",
			APIKey:   "A",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
	}
	if notifier != nil {
		m.notifier = notifier
	}
	if m.companionName == "" {
		m.companionName = prompts.DefaultCompanion
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// WithContext sets the context passed to storage and companion calls.
func (m Model) WithContext(ctx context.Context) Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.habitList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 14)
	m.habitList.SetShowHelp(false)
	m.habitList.SetShowTitle(false)
	m.habitList.SetShowStatusBar(false)
	m.habitList.SetFilteringEnabled(false)

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "name> "
	m.nameInput.CharLimit = 120
	m.nameInput.Width = 42

	m.keyInput = textinput.New()
	m.keyInput.Prompt = "key> "
	m.keyInput.CharLimit = 256
	m.keyInput.Width = 42
	m.keyInput.EchoMode = textinput.EchoPassword
	m.keyInput.EchoCharacter = '•'

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.xpProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.thinking = spinner.New()
	m.thinking.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.remarkView = viewport.New(54, 10)
}

func (m *Model) syncBubbleData() {
	rows := m.habitRows()
	m.clampCursor(len(rows))

	items := make([]list.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, listItem{title: views.HabitRowTitle(row), description: views.HabitRowDescription(row)})
	}
	m.habitList.SetItems(items)
	if len(items) > 0 {
		m.habitList.Select(m.Cursor)
	}

	m.remarkView.SetContent(m.Companion.Rendered)
}

func (m *Model) clampCursor(n int) {
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}
