package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/clockwork-dev/clockwork/internal/api"
	"github.com/clockwork-dev/clockwork/internal/config"
	"github.com/clockwork-dev/clockwork/internal/db"
	"github.com/clockwork-dev/clockwork/internal/event"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server. Configuration comes from the environment:

  CLOCKWORK_ADDR  listen address (default :8080)
  CLOCKWORK_DB    database path (default ~/.clockwork/clockwork.db)`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.ParseServer()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if cfg.DBPath != "" {
			gdb, err := db.Open(cfg.DBPath)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			db.DB = gdb
		} else {
			initDB()
		}
		svc := newServices()

		// Stand-in for the external notification component: every domain
		// event is logged with its dedup id.
		svc.bus.Subscribe(func(e event.Event) {
			log.Printf("event %s %s log=%d task=%d user=%d", e.ID, e.Type, e.TimeLogID, e.TaskID, e.UserID)
		})

		server := api.New(svc.engine, svc.approvals, svc.sheets)
		if err := server.ListenAndServe(cfg.Addr); err != nil {
			log.Fatal(err)
		}
	},
}
