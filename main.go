package main

import (
	"os"

	"github.com/tokamak-network/frontend-deploy/internal/cli"
	"github.com/tokamak-network/frontend-deploy/internal/logger"

	_ "github.com/tokamak-network/frontend-deploy/docs"
)

// @title           Frontend Deploy
// @version         1.0
// @description     Frontend deploy manager API

// @host      localhost:${PORT}
// @BasePath  /api/v1

// @securityDefinitions.basic  NoAuth
func main() {
	cli.Bootstrap(".env")

	if err := cli.Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
