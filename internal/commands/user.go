package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// userCmd stands in for the external identity component: it registers
// users locally and grants the approver capability.
var userCmd = &cobra.Command{
	Use:   "user [name]",
	Short: "Register a user or grant the approver role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()
		svc := newServices()

		user, err := svc.ledger.GetOrCreateUser(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if approver, _ := cmd.Flags().GetBool("approver"); approver && !user.Approver {
			user.Approver = true
			if err := svc.ledger.SaveUser(user); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		role := "worker"
		if user.Approver {
			role = "approver"
		}
		fmt.Printf("👤 User #%d %s (%s)\n", user.ID, user.Name, role)
	},
}

func init() {
	userCmd.Flags().Bool("approver", false, "Grant the approver capability")
}
