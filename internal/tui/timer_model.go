package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clockwork-dev/clockwork/internal/timer"
)

// TimerModel is the live timer display. It ticks a local counter once per
// second between server syncs and periodically reseeds from GetActive; the
// server-computed duration is always the authority, the local counter is
// presentation only.
type TimerModel struct {
	width  int
	height int

	engine *timer.Engine
	userID uint

	// Last authoritative snapshot
	logID     uint
	taskID    uint
	taskTitle string
	project   string
	startedAt time.Time
	paused    bool

	// Display state, advanced locally between syncs
	displaySeconds int64
	lastSyncAt     time.Time

	// Animation state
	timerAnimation int

	// UI state
	stopping bool   // True when user pressed S and we're stopping
	exiting  bool   // True when user pressed ESC/Q and we're exiting without stopping
	gone     bool   // True when a resync found no open timer
	err      error  // Transition error shown inline
}

// timerTickMsg is sent every second to advance the display counter
type timerTickMsg struct{}

// resyncMsg is sent periodically to reseed from the server snapshot
type resyncMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// resyncInterval bounds how far the local counter can drift
const resyncInterval = 30 * time.Second

// NewTimerModel creates a timer display seeded from an authoritative snapshot
func NewTimerModel(engine *timer.Engine, userID uint, snap *timer.Snapshot) TimerModel {
	m := TimerModel{
		engine: engine,
		userID: userID,
	}
	m.seed(snap)
	return m
}

// seed replaces all display state with a server snapshot. Local state never
// survives a sync; after a reconnect the counter restarts from the server
// value.
func (m *TimerModel) seed(snap *timer.Snapshot) {
	if snap == nil {
		m.gone = true
		return
	}
	m.logID = snap.Log.ID
	m.taskID = snap.Log.TaskID
	m.taskTitle = snap.Log.Task.Title
	m.project = snap.Log.Task.Project.Name
	m.startedAt = snap.Log.StartTime
	m.paused = snap.Log.IsPaused
	m.displaySeconds = snap.EffectiveSeconds
	m.lastSyncAt = snap.AsOf
}

// Init starts the display, resync and animation tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return timerTickMsg{}
		}),
		tea.Tick(resyncInterval, func(t time.Time) tea.Msg {
			return resyncMsg{}
		}),
		tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return animationTickMsg{}
		}),
	)
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting || m.gone
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		// Advance the local counter; while paused the display holds
		if !m.paused {
			m.displaySeconds++
		}
		if !m.done() {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return timerTickMsg{}
			})
		}
		return m, nil

	case resyncMsg:
		snap, err := m.engine.GetActive(m.userID)
		if err == nil {
			m.seed(snap)
		}
		if m.gone {
			// Timer was closed elsewhere; stop ticking immediately
			return m, tea.Quit
		}
		if !m.done() {
			return m, tea.Tick(resyncInterval, func(t time.Time) tea.Msg {
				return resyncMsg{}
			})
		}
		return m, nil

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if !m.done() {
			return m, tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
				return animationTickMsg{}
			})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p", "P":
			log, err := m.engine.Pause(m.userID, m.logID)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.paused = true
			m.displaySeconds = log.EffectiveSeconds(time.Now())
			return m, nil
		case "r", "R":
			log, err := m.engine.Resume(m.userID, m.logID)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.paused = false
			m.displaySeconds = log.EffectiveSeconds(time.Now())
			return m, nil
		case "s", "S":
			// Stop the timer and save
			m.stopping = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			// Exit without stopping
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	timerPanel := m.renderTimerPanel(m.width, contentHeight)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		timerPanel,
		helpBar,
	)
}

// renderTimerPanel renders the main timer panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	// Animated header
	headerText := ""
	headerColor := ColorAccentBright
	if m.paused {
		headerText = "⏸  PAUSED  ⏸"
		headerColor = ColorWarning
	} else {
		animChars := []string{"⏱", "⏲", "⏱", "⏲"}
		animChar := animChars[m.timerAnimation]
		headerText = fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(headerText))

	// Task ID and title
	idStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, idStyle.Render(fmt.Sprintf("#%d", m.taskID)))

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	titleText := m.taskTitle
	if len(titleText) > width-4 {
		titleText = titleText[:width-7] + "..."
	}
	components = append(components, titleStyle.Render(titleText))

	// Big clock display
	clockDisplay := m.renderBigClock()
	clockLines := strings.Split(clockDisplay, "\n")
	clockContent := ""
	for _, line := range clockLines {
		centeredLine := lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(width).
			Render(line)
		clockContent += centeredLine + "\n"
	}
	components = append(components, strings.TrimRight(clockContent, "\n"))

	// Session info
	info := fmt.Sprintf("Started at %s · project %s · synced %s",
		m.startedAt.Format("15:04:05"), m.project, m.lastSyncAt.Format("15:04:05"))
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, infoStyle.Render(info))

	// Inline error from the last rejected transition
	if m.err != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, errStyle.Render("✗ "+m.err.Error()))
	}

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// renderBigClock renders the effective duration as an ASCII art clock
func (m TimerModel) renderBigClock() string {
	seconds := m.displaySeconds
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	// ASCII art for digits (5x5 characters each)
	digits := map[rune][][]string{
		'0': {
			{" ███ "},
			{"█   █"},
			{"█   █"},
			{"█   █"},
			{" ███ "},
		},
		'1': {
			{"  █  "},
			{" ██  "},
			{"  █  "},
			{"  █  "},
			{"█████"},
		},
		'2': {
			{" ███ "},
			{"█   █"},
			{"   █ "},
			{"  █  "},
			{"█████"},
		},
		'3': {
			{" ███ "},
			{"█   █"},
			{"  ██ "},
			{"█   █"},
			{" ███ "},
		},
		'4': {
			{"█   █"},
			{"█   █"},
			{"█████"},
			{"    █"},
			{"    █"},
		},
		'5': {
			{"█████"},
			{"█    "},
			{"████ "},
			{"    █"},
			{"████ "},
		},
		'6': {
			{" ███ "},
			{"█    "},
			{"████ "},
			{"█   █"},
			{" ███ "},
		},
		'7': {
			{"█████"},
			{"    █"},
			{"   █ "},
			{"  █  "},
			{" █   "},
		},
		'8': {
			{" ███ "},
			{"█   █"},
			{" ███ "},
			{"█   █"},
			{" ███ "},
		},
		'9': {
			{" ███ "},
			{"█   █"},
			{" ████"},
			{"    █"},
			{" ███ "},
		},
		':': {
			{"     "},
			{"  █  "},
			{"     "},
			{"  █  "},
			{"     "},
		},
	}

	timeStr := ""
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	} else {
		timeStr = fmt.Sprintf("%02d:%02d", minutes, secs)
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		if digitArt, ok := digits[char]; ok {
			for i := 0; i < 5; i++ {
				lines[i].WriteString(digitArt[i][0])
				lines[i].WriteString(" ") // Space between digits
			}
		}
	}

	clockColor := ColorAccentBright
	if m.paused {
		clockColor = ColorWarning
	}
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(clockColor)).
		Bold(true)

	var result strings.Builder
	for i := 0; i < 5; i++ {
		result.WriteString(clockStyle.Render(lines[i].String()))
		if i < 4 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "p pause · r resume · s stop & save · esc/q exit (keep running) · ctrl+c force quit"

	return helpStyle.Render(helpText)
}
