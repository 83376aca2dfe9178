package servers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	appConfig "github.com/tokamak-network/frontend-deploy/internal/config"
	"github.com/tokamak-network/frontend-deploy/pkg/config"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/git"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/notify"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/storage"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/toolchain"
	"github.com/tokamak-network/frontend-deploy/pkg/services"
	"github.com/tokamak-network/frontend-deploy/pkg/taskmanager"
	"gorm.io/gorm"
)

type Server struct {
	Router      *gin.Engine
	PostgresDB  *gorm.DB
	Config      *appConfig.Config
	Registry    *prometheus.Registry
	Metrics     *services.Metrics
	TaskManager *taskmanager.TaskManager

	Deployer  *services.DeployService
	Activator *services.ActivationService
	Revisions *services.RevisionService
}

func (s *Server) Start(port string) error {
	s.TaskManager.Start()
	return s.Router.Run(":" + port)
}

func (s *Server) Stop() {
	s.TaskManager.Stop()
}

func (s *Server) Use(middleware gin.HandlerFunc) {
	s.Router.Use(middleware)
}

func NewServer(db *gorm.DB, cfg *appConfig.Config) *Server {
	app := gin.Default()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)
	loader := config.NewLoader(cfg.ConfigDir)
	storageFactory := storage.NewS3Factory()

	return &Server{
		Router:     app,
		PostgresDB: db,
		Config:     cfg,
		Registry:   registry,
		Metrics:    metrics,
		// One worker keeps API-triggered deploys strictly sequential.
		TaskManager: taskmanager.NewTaskManager(1, cfg.DeployQueueSize),
		Deployer: services.NewDeployService(
			db,
			loader,
			git.NewRepository(cfg.WorkspaceDir),
			toolchain.NewRunner(cfg.WorkspaceDir, cfg.InstallCommands, cfg.BuildCommand),
			storageFactory,
			notify.NewSlackNotifier(cfg.SlackWebhookURL),
			metrics,
		),
		Activator: services.NewActivationService(db, loader, storageFactory, metrics),
		Revisions: services.NewRevisionService(db),
	}
}
