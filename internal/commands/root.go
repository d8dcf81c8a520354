package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/approval"
	"github.com/clockwork-dev/clockwork/internal/db"
	"github.com/clockwork-dev/clockwork/internal/event"
	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
	"github.com/clockwork-dev/clockwork/internal/timer"
	"github.com/clockwork-dev/clockwork/internal/timesheet"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "clockwork",
	Short: "Time tracking with an approval workflow",
	Long: `clockwork tracks worked time against tasks and routes finished time
logs through an approval workflow before they count toward timesheets.
Start, pause, resume and stop timers; approvers sign off on the results.`,
}

// initDB initializes the database and panics on error
func initDB() {
	if err := db.Initialize(); err != nil {
		panic(err) // For now, panic on DB init failure
	}
}

// services bundles the engine and its collaborators over the shared DB
type services struct {
	ledger    *ledger.Ledger
	engine    *timer.Engine
	approvals *approval.Workflow
	sheets    *timesheet.Aggregator
	bus       *event.Bus
}

func newServices() *services {
	led := ledger.New(db.DB)
	bus := event.NewBus()
	return &services{
		ledger:    led,
		engine:    timer.New(led, bus),
		approvals: approval.New(led, bus),
		sheets:    timesheet.New(led),
		bus:       bus,
	}
}

// currentUser resolves the acting user from --user, $CLOCKWORK_USER, or
// the OS login name, creating the record on first use. Authentication
// proper is outside this tool.
func currentUser(cmd *cobra.Command, svc *services) (*models.User, error) {
	name, _ := cmd.Flags().GetString("user")
	if name == "" {
		name = os.Getenv("CLOCKWORK_USER")
	}
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		return nil, fmt.Errorf("cannot resolve user, pass --user or set CLOCKWORK_USER")
	}
	return svc.ledger.GetOrCreateUser(name)
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clockwork %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("user", "", "Act as this user (defaults to $CLOCKWORK_USER)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(manualCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(timesheetCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
