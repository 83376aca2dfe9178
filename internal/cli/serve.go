package cli

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/frontend-deploy/docs"
	"github.com/tokamak-network/frontend-deploy/internal/config"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/api/routes"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/connection"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the manager API",
	Long: `Serve the manager API: revision listing, activation, queued deploys and
the chat slash command endpoint. The ledger schema is migrated on start.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (defaults to PORT)")
}

func runServe(cmd *cobra.Command, args []string) {
	c := initServiceContext(func(cfg *config.Config) {
		if servePort != "" {
			cfg.Port = servePort
		}
	})
	defer c.Close()

	if err := connection.Migrate(c.DB); err != nil {
		exitError("failed to migrate ledger schema: %v", err)
	}

	// programmatically set swagger info
	docs.SwaggerInfo.Title = "Frontend Deploy"
	docs.SwaggerInfo.Description = "Frontend deploy manager API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http"}
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", c.Config.Port)
	docs.SwaggerInfo.BasePath = "/api/v1"

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"*"}
	c.Server.Use(cors.New(corsConfig))

	routes.SetupRoutes(c.Server)

	logger.Info("starting manager API", zap.String("port", c.Config.Port))
	if err := c.Server.Start(c.Config.Port); err != nil {
		logger.Error("Failed to start server", zap.Error(err))
		exitError("%v", err)
	}
}
