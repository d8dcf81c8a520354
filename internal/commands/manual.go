package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/timeparse"
)

var manualCmd = &cobra.Command{
	Use:   "manual [task-id]",
	Short: "Record a historical time entry",
	Long: `Record a time entry for work done off the clock. Manual entries skip
the running-timer rules and go straight to pending approval.

Examples:
  clockwork manual 42 --from "09:00" --to "11:30"
  clockwork manual 42 --from "2 hours ago" --to "30 minutes ago" --note "code review"
  clockwork manual 42 --from "2026-08-29 14:00" --to "2026-08-29 16:00"`,
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

		now := time.Now()
		fromRaw, _ := cmd.Flags().GetString("from")
		toRaw, _ := cmd.Flags().GetString("to")

		from, err := timeparse.ParseTimestamp(fromRaw, now)
		if err != nil {
			fmt.Printf("Error: --from: %v\n", err)
			return
		}
		to, err := timeparse.ParseTimestamp(toRaw, now)
		if err != nil {
			fmt.Printf("Error: --to: %v\n", err)
			return
		}

		note, _ := cmd.Flags().GetString("note")
		log, err := svc.engine.RecordManual(user.ID, uint(taskID), from, to, note)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("📝 Recorded %s on task #%d: %s\n",
			timeparse.FormatSeconds(log.DurationSeconds), log.TaskID, log.Task.Title)
		fmt.Printf("%s → %s, pending approval\n",
			log.StartTime.Format("Jan 02 15:04"), log.EndTime.Format("Jan 02 15:04"))
	},
}

func init() {
	manualCmd.Flags().String("from", "", "Start of the entry (required)")
	manualCmd.Flags().String("to", "", "End of the entry (required)")
	manualCmd.Flags().String("note", "", "Note to attach to the time log")
	manualCmd.MarkFlagRequired("from")
	manualCmd.MarkFlagRequired("to")
}
