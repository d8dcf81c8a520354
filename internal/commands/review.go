package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
	"github.com/clockwork-dev/clockwork/internal/tui"
)

var approveCmd = &cobra.Command{
	Use:   "approve [log-id]",
	Short: "Approve a pending time log",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		logID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid log ID '%s'\n", args[0])
			return
		}

		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		log, err := svc.approvals.Approve(user.ID, uint(logID))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Approved time log #%d (task #%d)\n", log.ID, log.TaskID)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject [log-id] [reason...]",
	Short: "Reject a pending time log",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		logID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid log ID '%s'\n", args[0])
			return
		}
		reason := strings.Join(args[1:], " ")

		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		log, err := svc.approvals.Reject(user.ID, uint(logID), reason)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("❌ Rejected time log #%d: %s\n", log.ID, log.RejectionReason)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review pending time logs interactively",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()
		user, err := currentUser(cmd, svc)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		pending, err := svc.ledger.QueryLogs(ledger.QueryFilter{
			ApprovalStatus: models.ApprovalPending,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		// Open timers cannot be decided yet
		closed := pending[:0]
		for _, log := range pending {
			if !log.Open() {
				closed = append(closed, log)
			}
		}
		if len(closed) == 0 {
			fmt.Println("No pending time logs to review")
			return
		}

		if err := tui.RunReviewTUI(svc.approvals, user.ID, closed); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}
