package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clockwork-dev/clockwork/internal/approval"
	"github.com/clockwork-dev/clockwork/internal/models"
	"github.com/clockwork-dev/clockwork/internal/timeparse"
	"github.com/clockwork-dev/clockwork/internal/timer"
)

// RunTimerTUI runs the live timer display for the user's active timer
func RunTimerTUI(engine *timer.Engine, userID uint, snap *timer.Snapshot) error {
	model := NewTimerModel(engine, userID, snap)

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timerModel := finalModel.(TimerModel)
	if timerModel.stopping {
		stopped, err := engine.Stop(userID, timerModel.logID)
		if err != nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}
		fmt.Printf("⏹️  Stopped tracking time for task #%d: %s\n", stopped.TaskID, timerModel.taskTitle)
		fmt.Printf("📊 Worked %s (paused %s), pending approval\n",
			timeparse.FormatSeconds(stopped.DurationSeconds-stopped.PausedSeconds),
			timeparse.FormatSeconds(stopped.PausedSeconds))
	} else if timerModel.gone {
		fmt.Println("⏹️  Timer was stopped elsewhere.")
	} else if timerModel.exiting {
		fmt.Printf("\n💡 Timer is still running in the background for task #%d: %s\n", timerModel.taskID, timerModel.taskTitle)
		fmt.Printf("   Use 'clockwork status' to check it or 'clockwork stop' to stop it.\n")
	}

	return nil
}

// RunReviewTUI runs the approvals queue over pending closed logs
func RunReviewTUI(workflow *approval.Workflow, actorID uint, pending []models.TimeLog) error {
	model := NewReviewModel(workflow, actorID, pending)

	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(ReviewModel); ok && m.decided > 0 {
		fmt.Printf("✅ Reviewed %d time log(s).\n", m.decided)
	}

	return nil
}
