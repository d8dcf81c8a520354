package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clockwork-dev/clockwork/internal/approval"
	"github.com/clockwork-dev/clockwork/internal/models"
	"github.com/clockwork-dev/clockwork/internal/timeparse"
)

// ReviewModel is the approvals queue: pending closed time logs with
// approve/reject keys. Rejecting opens a reason input.
type ReviewModel struct {
	width  int
	height int

	workflow *approval.Workflow
	actorID  uint
	pending  []models.TimeLog

	cursor    int
	rejecting bool // True while the reason input is open
	reason    textinput.Model

	decided  int // count of decisions made this session
	err      error
	quitting bool
}

// NewReviewModel creates the approvals TUI over a pending queue
func NewReviewModel(workflow *approval.Workflow, actorID uint, pending []models.TimeLog) ReviewModel {
	reason := textinput.New()
	reason.Placeholder = "why is this log rejected?"
	reason.CharLimit = 200
	reason.Width = 48

	return ReviewModel{
		workflow: workflow,
		actorID:  actorID,
		pending:  pending,
		reason:   reason,
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.rejecting {
			return m.updateRejecting(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// updateList handles keys while browsing the pending queue
func (m ReviewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.pending)-1 {
			m.cursor++
		}
	case "a", "A":
		if len(m.pending) == 0 {
			return m, nil
		}
		log := m.pending[m.cursor]
		if _, err := m.workflow.Approve(m.actorID, log.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.decided++
		m.removeCurrent()
	case "r", "R":
		if len(m.pending) == 0 {
			return m, nil
		}
		m.rejecting = true
		m.reason.SetValue("")
		m.reason.Focus()
		return m, textinput.Blink
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// updateRejecting handles keys while the reason input is open
func (m ReviewModel) updateRejecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		log := m.pending[m.cursor]
		if _, err := m.workflow.Reject(m.actorID, log.ID, m.reason.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.decided++
		m.rejecting = false
		m.reason.Blur()
		m.removeCurrent()
		return m, nil
	case "esc":
		m.rejecting = false
		m.reason.Blur()
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.reason, cmd = m.reason.Update(msg)
	return m, cmd
}

func (m *ReviewModel) removeCurrent() {
	m.pending = append(m.pending[:m.cursor], m.pending[m.cursor+1:]...)
	if m.cursor >= len(m.pending) && m.cursor > 0 {
		m.cursor--
	}
}

// View renders the review TUI
func (m ReviewModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)
	b.WriteString(headerStyle.Render("⚖️  PENDING TIME LOGS"))
	b.WriteString("\n\n")

	if len(m.pending) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
		b.WriteString(emptyStyle.Render("Nothing left to review."))
		b.WriteString("\n")
	}

	for i, log := range m.pending {
		line := fmt.Sprintf("#%-4d  %-28s  %s  %s",
			log.ID,
			truncate(log.Task.Title, 28),
			log.StartTime.Format("Jan 02 15:04"),
			timeparse.FormatSeconds(log.EffectiveSeconds(time.Now())),
		)
		if log.IsManual {
			line += "  (manual)"
		}

		lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
		prefix := "  "
		if i == m.cursor {
			lineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorPrimaryText)).
				Bold(true)
			prefix = "▸ "
		}
		b.WriteString(lineStyle.Render(prefix + line))
		b.WriteString("\n")
	}

	if m.rejecting {
		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorError)).
			Padding(0, 1)
		b.WriteString("\n")
		b.WriteString(boxStyle.Render("Rejection reason: " + m.reason.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString("\n")
		b.WriteString(errStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	help := "↑/↓ move · a approve · r reject · esc/q done"
	if m.rejecting {
		help = "enter confirm rejection · esc cancel"
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
