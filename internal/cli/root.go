// Package cli implements the frontend-deploy command line.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/frontend-deploy/internal/config"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/api/servers"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/connection"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cmdContext holds the resources shared by commands.
type cmdContext struct {
	Config *config.Config
	DB     *gorm.DB
	Server *servers.Server
}

func (c *cmdContext) Close() {
	if c.Server != nil {
		c.Server.Stop()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Sync()
}

// initContext loads process config and connects to the ledger.
func initContext() *cmdContext {
	cfg := config.Load()

	db, err := connection.Init(
		cfg.PostgresUser,
		cfg.PostgresHost,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresPort,
	)
	if err != nil {
		exitError("failed to connect to postgres: %v", err)
	}

	return &cmdContext{Config: cfg, DB: db}
}

// initServiceContext also wires the deploy, activation and listing services.
// apply runs against the loaded config before wiring.
func initServiceContext(apply func(cfg *config.Config)) *cmdContext {
	ctx := initContext()
	if apply != nil {
		apply(ctx.Config)
	}
	ctx.Server = servers.NewServer(ctx.DB, ctx.Config)
	return ctx
}

var rootCmd = &cobra.Command{
	Use:   "frontend-deploy",
	Short: "Build, publish and activate frontend revisions",
	Long: `frontend-deploy builds a frontend app for a deploy environment, publishes
its entry page to object storage under a versioned path and records every
attempt in a revision ledger. Recorded revisions can later be activated as
the live entry page.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Debug("command started", zap.String("command", cmd.CommandPath()))
	},
}

// Bootstrap loads envFile if it exists (optional for Docker runtime) and then
// initializes the logger, so LOG_LEVEL and LOG_FORMAT may come from the file.
func Bootstrap(envFile string) {
	envErr := godotenv.Load(envFile)

	logger.Init()
	if envErr != nil {
		logger.Infof("No .env file found, using environment variables: %s", envErr)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(revisionsCmd)
	rootCmd.AddCommand(activateCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	logger.Sync()
	os.Exit(1)
}
