package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/timeparse"
	"github.com/clockwork-dev/clockwork/internal/timesheet"
)

var timesheetCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Show a timesheet report",
	Long: `Show time logs filtered by user, project, approval status and date.

Examples:
  clockwork timesheet                        # today, all users
  clockwork timesheet --date yesterday
  clockwork timesheet --week --date monday
  clockwork timesheet --for alice --status approved`,
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()

		filters := timesheet.Filters{View: timesheet.ViewDaily}
		if weekly, _ := cmd.Flags().GetBool("week"); weekly {
			filters.View = timesheet.ViewWeekly
		}

		dateRaw, _ := cmd.Flags().GetString("date")
		date, err := timeparse.ParseDate(dateRaw, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		filters.Date = date

		if name, _ := cmd.Flags().GetString("for"); name != "" {
			user, err := svc.ledger.GetOrCreateUser(name)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			filters.UserID = &user.ID
		}
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			proj, err := svc.ledger.GetOrCreateProject(project)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			filters.ProjectID = &proj.ID
		}
		filters.ApprovalStatus, _ = cmd.Flags().GetString("status")
		filters.TaskStatus, _ = cmd.Flags().GetString("task-status")

		result, err := svc.sheets.Query(filters)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if len(result.Data) == 0 {
			fmt.Println("No time logs found for this period")
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Log", "Task", "User", "Start", "Worked", "Status"})
		table.SetBorder(false)

		for _, entry := range result.Data {
			status := entry.Status
			if entry.Open() {
				status = "running"
				if entry.IsPaused {
					status = "paused"
				}
			}
			table.Append([]string{
				fmt.Sprintf("#%d", entry.ID),
				entry.Task.Title,
				entry.User.Name,
				entry.StartTime.Format("Jan 02 15:04"),
				timeparse.FormatSeconds(entry.EffectiveSeconds),
				status,
			})
		}
		table.Render()

		fmt.Printf("\n%d log(s), %s total (%.2f hours)\n",
			result.Summary.TotalLogs,
			timeparse.FormatSeconds(result.Summary.TotalDurationSeconds),
			result.Summary.TotalHours)
	},
}

func init() {
	timesheetCmd.Flags().String("date", "", "Anchor date: today, yesterday, a weekday, yyyy-mm-dd")
	timesheetCmd.Flags().Bool("week", false, "Weekly view instead of daily")
	timesheetCmd.Flags().String("for", "", "Filter by user name")
	timesheetCmd.Flags().StringP("project", "p", "", "Filter by project")
	timesheetCmd.Flags().StringP("status", "s", "", "Filter by approval status: pending, approved, rejected")
	timesheetCmd.Flags().String("task-status", "", "Filter by task status: todo, in_progress, review, done")
}
