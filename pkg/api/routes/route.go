package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tokamak-network/frontend-deploy/pkg/api/handlers"
	"github.com/tokamak-network/frontend-deploy/pkg/api/servers"

	swaggerFiles "github.com/swaggo/files"
)

func SetupRoutes(server *servers.Server) {
	apiV1 := server.Router.Group("/api/v1")
	setupV1Routes(apiV1, server)

	server.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(server.Registry, promhttp.HandlerOpts{})))
	server.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func setupV1Routes(router *gin.RouterGroup, server *servers.Server) {
	// Health routes
	setupHealthRoutes(router.Group("/health"), server)

	manager := handlers.NewManagerHandler(server)
	setupManagerRoutes(router.Group("/manager"), manager)
	setupSlackRoutes(router.Group("/slack"), manager)
}

func setupHealthRoutes(router *gin.RouterGroup, server *servers.Server) {
	handler := handlers.NewHealthHandler(server.PostgresDB)
	router.GET("", handler.GetHealth)
}

func setupManagerRoutes(router *gin.RouterGroup, handler *handlers.ManagerHandler) {
	router.POST("/revisions", handler.ListRevisions)
	router.POST("/activate", handler.Activate)
	router.POST("/deploy", handler.Deploy)
}

func setupSlackRoutes(router *gin.RouterGroup, handler *handlers.ManagerHandler) {
	router.POST("/command", handler.SlackCommand)
}
