package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/connection"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the revision ledger schema",
	Run:   runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := connection.Migrate(c.DB); err != nil {
		exitError("failed to migrate ledger schema: %v", err)
	}
	color.Green("Ledger schema is up to date")
}
