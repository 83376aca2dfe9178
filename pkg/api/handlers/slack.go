package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/api/dtos"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"go.uber.org/zap"
)

// SlackCommand godoc
//
//	@Summary	Chat slash command entry point
//	@Tags		manager
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		token		formData	string	true	"command token"
//	@Param		text		formData	string	true	"manager get APP revisions for ENV | manager activate APP SELECTOR on ENV"
//	@Param		user_name	formData	string	false	"caller"
//	@Success	200			{object}	dtos.ManagerResponse
//	@Router		/slack/command [post]
func (h *ManagerHandler) SlackCommand(c *gin.Context) {
	var command dtos.SlackCommand
	if err := c.ShouldBind(&command); err != nil {
		c.JSON(http.StatusOK, dtos.ManagerResponse{Text: consts.AccessDenied})
		return
	}
	if command.Token == "" {
		command.Token = c.Query("token")
	}
	if !h.authorized(command.Token) {
		logger.Warn("slack command denied", zap.String("user", command.UserName))
		c.JSON(http.StatusOK, dtos.ManagerResponse{Text: consts.AccessDenied})
		return
	}

	parsed, err := dtos.ParseManagerCommand(command.Text)
	if err != nil {
		c.JSON(http.StatusOK, dtos.ManagerResponse{Text: mention(command.UserName, consts.InvalidRequest)})
		return
	}

	var reply string
	switch parsed.Action {
	case dtos.CommandListRevisions:
		text, err := h.revisions.ListRevisionsText(c.Request.Context(), parsed.App, entities.RevisionFilter{Env: parsed.Env})
		if err != nil {
			logger.Error("failed to list revisions", zap.String("app", parsed.App), zap.Error(err))
			text = consts.LedgerErrorPrefix + err.Error()
		}
		reply = text
	case dtos.CommandActivate:
		reply = h.activator.Activate(c.Request.Context(), parsed.App, parsed.Env, parsed.Selector)
	}

	c.JSON(http.StatusOK, dtos.ManagerResponse{Text: mention(command.UserName, reply)})
}

func mention(user, text string) string {
	user = strings.ToLower(strings.TrimSpace(user))
	if user == "" {
		return text
	}
	return fmt.Sprintf("<@%s> %s", user, text)
}
