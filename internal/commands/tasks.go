package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/models"
)

// Task management proper lives in the surrounding product; these commands
// are the minimal glue timers need: something to track against, and the
// stop-before-done ordering when a task is finished.

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()

		project, _ := cmd.Flags().GetString("project")
		note, _ := cmd.Flags().GetString("note")

		task, err := svc.ledger.CreateTask(args[0], project, note)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ New task \"%s\" added - ID: %d (project %s)\n", task.Title, task.ID, task.Project.Name)
	},
}

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()

		tasks, err := svc.ledger.ListTasks()
		if err != nil {
			fmt.Printf("Error fetching tasks: %v\n", err)
			return
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found. Use 'clockwork add \"task description\"' to create your first task.")
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Status", "Title", "Project"})
		table.SetBorder(false)
		for _, task := range tasks {
			table.Append([]string{
				strconv.FormatUint(uint64(task.ID), 10),
				task.Status,
				task.Title,
				task.Project.Name,
			})
		}
		table.Render()
	},
}

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. If you have an open timer on the task it is
stopped first, so no time log is left dangling.`,
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

		task, err := svc.ledger.GetTask(uint(taskID))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if task.Status == models.StatusDone {
			fmt.Printf("Error: task #%d is already completed\n", task.ID)
			return
		}

		// The engine never auto-stops on completion; callers stop first.
		snap, err := svc.engine.GetActive(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if snap != nil && snap.Log.TaskID == task.ID {
			if _, err := svc.engine.Stop(user.ID, snap.Log.ID); err != nil {
				fmt.Printf("Error: failed to stop active timer: %v\n", err)
				return
			}
			fmt.Printf("⏹️  Stopped the open timer on task #%d\n", task.ID)
		}

		now := time.Now()
		task.Status = models.StatusDone
		task.DoneAt = &now
		if err := svc.ledger.SaveTask(task); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Marked task #%d as done: %s\n", task.ID, task.Title)
	},
}

func init() {
	addCmd.Flags().StringP("project", "p", "", "Project the task belongs to")
	addCmd.Flags().String("note", "", "Optional note")
}
