package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/timeparse"
	"github.com/clockwork-dev/clockwork/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start tracking time on a task",
	Long: `Start tracking time on a task. Opens the interactive timer by default,
use --no-ui for a simple start.

Examples:
  clockwork start 42          # Start timer with interactive UI
  clockwork start 42 --no-ui  # Start timer without UI`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		taskID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid task ID '%s'\n", args[0])
			return
		}

		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		note, _ := cmd.Flags().GetString("note")
		log, err := svc.engine.Start(user.ID, uint(taskID), note)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started tracking time for task #%d: %s\n", log.TaskID, log.Task.Title)
			fmt.Printf("Started at: %s\n", log.StartTime.Format("15:04:05"))
			return
		}

		snap, err := svc.engine.GetActive(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := tui.RunTimerTUI(svc.engine, user.ID, snap); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running timer",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		snap, err := svc.engine.GetActive(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if snap == nil {
			fmt.Println("No active timer to pause")
			return
		}

		log, err := svc.engine.Pause(user.ID, snap.Log.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏸️  Paused timer for task #%d\n", log.TaskID)
		fmt.Printf("Worked so far: %s\n", timeparse.FormatSeconds(log.DurationSeconds-log.PausedSeconds))
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the paused timer",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		snap, err := svc.engine.GetActive(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if snap == nil {
			fmt.Println("No active timer to resume")
			return
		}

		log, err := svc.engine.Resume(user.ID, snap.Log.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("▶️  Resumed timer for task #%d\n", log.TaskID)
		fmt.Printf("Paused for: %s total\n", timeparse.FormatSeconds(log.PausedSeconds))
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking time",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		snap, err := svc.engine.GetActive(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if snap == nil {
			fmt.Println("No active timer to stop")
			return
		}

		log, err := svc.engine.Stop(user.ID, snap.Log.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏹️  Stopped tracking time for task #%d\n", log.TaskID)
		fmt.Printf("Worked: %s (paused %s), pending approval\n",
			timeparse.FormatSeconds(log.DurationSeconds-log.PausedSeconds),
			timeparse.FormatSeconds(log.PausedSeconds))
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current time tracking status",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		snap, err := svc.engine.GetActive(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if snap == nil {
			fmt.Println("No active timer")
			return
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if watch {
			if err := tui.RunTimerTUI(svc.engine, user.ID, snap); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		state := "running"
		if snap.Log.IsPaused {
			state = "paused"
		}
		fmt.Printf("⏱️  Currently tracking task #%d: %s (%s)\n", snap.Log.TaskID, snap.Log.Task.Title, state)
		fmt.Printf("Started at: %s\n", snap.Log.StartTime.Format("15:04:05"))
		fmt.Printf("Worked: %s\n", timeparse.FormatSeconds(snap.EffectiveSeconds))
	},
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
	startCmd.Flags().String("note", "", "Note to attach to the time log")
	statusCmd.Flags().Bool("watch", false, "Open the live timer display")
}
