package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/api/dtos"
	"github.com/tokamak-network/frontend-deploy/pkg/api/servers"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/services"
	"go.uber.org/zap"
)

type revisionLister interface {
	ListRevisions(ctx context.Context, app string, filter entities.RevisionFilter) ([]*entities.RevisionSummary, error)
	ListRevisionsText(ctx context.Context, app string, filter entities.RevisionFilter) (string, error)
}

type activator interface {
	Activate(ctx context.Context, app string, env entities.DeployEnv, selector string) string
}

type deployRunner interface {
	Run(ctx context.Context, app string, env entities.DeployEnv) (*entities.RevisionEntity, error)
}

type taskQueue interface {
	AddTask(task entities.Task) error
}

type ManagerHandler struct {
	tokens    []string
	revisions revisionLister
	activator activator
	deployer  deployRunner
	queue     taskQueue
}

func NewManagerHandler(server *servers.Server) *ManagerHandler {
	return newManagerHandler(
		server.Config.ManagerTokens,
		server.Revisions,
		server.Activator,
		server.Deployer,
		server.TaskManager,
	)
}

func newManagerHandler(
	tokens []string,
	revisions revisionLister,
	activator activator,
	deployer deployRunner,
	queue taskQueue,
) *ManagerHandler {
	return &ManagerHandler{
		tokens:    tokens,
		revisions: revisions,
		activator: activator,
		deployer:  deployer,
		queue:     queue,
	}
}

func (h *ManagerHandler) authorized(token string) bool {
	if token == "" {
		return false
	}
	for _, allowed := range h.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(allowed)) == 1 {
			return true
		}
	}
	return false
}

// bindManagerRequest decodes the request and checks its token. It writes the
// reply itself and returns false when the request must not proceed.
func (h *ManagerHandler) bindManagerRequest(c *gin.Context, request *dtos.ManagerRequest) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		c.JSON(http.StatusForbidden, dtos.ManagerResponse{Text: consts.AccessDenied})
		return false
	}
	if request.Token == "" {
		request.Token = c.Query("token")
	}
	if !h.authorized(request.Token) {
		logger.Warn("manager request denied", zap.String("path", c.FullPath()))
		c.JSON(http.StatusForbidden, dtos.ManagerResponse{Text: consts.AccessDenied})
		return false
	}
	return true
}

// ListRevisions godoc
//
//	@Summary	List recorded revisions of an app
//	@Tags		manager
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dtos.ManagerRequest	true	"app, optional env and filters"
//	@Success	200		{object}	dtos.ManagerResponse
//	@Failure	400		{object}	dtos.ManagerResponse
//	@Failure	403		{object}	dtos.ManagerResponse
//	@Router		/manager/revisions [post]
func (h *ManagerHandler) ListRevisions(c *gin.Context) {
	var request dtos.ManagerRequest
	if !h.bindManagerRequest(c, &request) {
		return
	}
	if err := request.ValidateList(); err != nil {
		c.JSON(http.StatusBadRequest, dtos.ManagerResponse{Text: consts.InvalidRequest})
		return
	}

	filter := request.Filter()
	revisions, err := h.revisions.ListRevisions(c.Request.Context(), request.App, filter)
	if err != nil && !errors.Is(err, entities.ErrNoRevisions) {
		logger.Error("failed to list revisions", zap.String("app", request.App), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dtos.ManagerResponse{Text: consts.LedgerErrorPrefix + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dtos.ManagerResponse{
		Text:      services.FormatRevisions(request.App, filter.Env, revisions),
		Revisions: revisions,
	})
}

// Activate godoc
//
//	@Summary	Promote a recorded revision to the live entry point
//	@Tags		manager
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dtos.ManagerRequest	true	"app, env and selector (commit prefix or tag)"
//	@Success	200		{object}	dtos.ManagerResponse
//	@Failure	400		{object}	dtos.ManagerResponse
//	@Failure	403		{object}	dtos.ManagerResponse
//	@Router		/manager/activate [post]
func (h *ManagerHandler) Activate(c *gin.Context) {
	var request dtos.ManagerRequest
	if !h.bindManagerRequest(c, &request) {
		return
	}
	if err := request.ValidateActivate(); err != nil {
		c.JSON(http.StatusBadRequest, dtos.ManagerResponse{Text: consts.InvalidRequest})
		return
	}

	result := h.activator.Activate(c.Request.Context(), request.App, entities.DeployEnv(request.Env), request.Selector)
	c.JSON(http.StatusOK, dtos.ManagerResponse{Text: result})
}

// Deploy godoc
//
//	@Summary	Queue deploy runs of an app
//	@Tags		manager
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dtos.DeployRequest	true	"app and comma separated envs"
//	@Success	202		{object}	dtos.ManagerResponse
//	@Failure	400		{object}	dtos.ManagerResponse
//	@Failure	403		{object}	dtos.ManagerResponse
//	@Failure	503		{object}	dtos.ManagerResponse
//	@Router		/manager/deploy [post]
func (h *ManagerHandler) Deploy(c *gin.Context) {
	var request dtos.DeployRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusForbidden, dtos.ManagerResponse{Text: consts.AccessDenied})
		return
	}
	if request.Token == "" {
		request.Token = c.Query("token")
	}
	if !h.authorized(request.Token) {
		c.JSON(http.StatusForbidden, dtos.ManagerResponse{Text: consts.AccessDenied})
		return
	}

	envs, err := request.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ManagerResponse{Text: consts.InvalidRequest})
		return
	}

	app := request.App
	for _, env := range envs {
		env := env
		err := h.queue.AddTask(func() {
			if _, err := h.deployer.Run(context.Background(), app, env); err != nil {
				logger.Error("queued deploy failed",
					zap.String("app", app),
					zap.String("env", env.String()),
					zap.Error(err))
			}
		})
		if err != nil {
			logger.Error("failed to queue deploy", zap.String("app", app), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, dtos.ManagerResponse{Text: err.Error()})
			return
		}
	}

	c.JSON(http.StatusAccepted, dtos.ManagerResponse{
		Text: fmt.Sprintf("%s: %s to %v", consts.DeployScheduled, app, envs),
	})
}
