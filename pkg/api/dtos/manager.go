package dtos

import (
	"errors"
	"strings"
	"time"

	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

type ManagerRequest struct {
	Token       string     `json:"token"`
	App         string     `json:"app"`
	Env         string     `json:"env"`
	Selector    string     `json:"selector,omitempty"`
	CreatedFrom *time.Time `json:"createdFrom,omitempty"`
	Offset      int        `json:"offset,omitempty"`
	Limit       int        `json:"limit,omitempty"`
	Sort        string     `json:"sort,omitempty" enums:"created,id"`
}

func (request *ManagerRequest) normalize() {
	request.App = strings.TrimSpace(request.App)
	request.Env = strings.TrimSpace(request.Env)
	request.Selector = strings.TrimSpace(request.Selector)
	request.Sort = strings.TrimSpace(request.Sort)
}

// ValidateList checks a list request. Env is optional and narrows the listing.
func (request *ManagerRequest) ValidateList() error {
	request.normalize()
	if request.App == "" {
		return errors.New("app is required")
	}
	if request.Env != "" && !entities.DeployEnv(request.Env).IsValid() {
		return errors.New("invalid env")
	}
	if request.Offset < 0 || request.Limit < 0 {
		return errors.New("offset and limit must not be negative")
	}
	switch entities.RevisionSort(request.Sort) {
	case "", entities.RevisionSortByCreated, entities.RevisionSortByID:
	default:
		return errors.New("invalid sort")
	}
	return nil
}

func (request *ManagerRequest) ValidateActivate() error {
	request.normalize()
	if request.App == "" || request.Selector == "" {
		return errors.New("app and selector are required")
	}
	if !entities.DeployEnv(request.Env).IsValid() {
		return errors.New("invalid env")
	}
	return nil
}

func (request *ManagerRequest) Filter() entities.RevisionFilter {
	return entities.RevisionFilter{
		Env:         entities.DeployEnv(request.Env),
		CreatedFrom: request.CreatedFrom,
		Offset:      request.Offset,
		Limit:       request.Limit,
		Sort:        entities.RevisionSort(request.Sort),
	}
}

type ManagerResponse struct {
	Text      string                      `json:"text"`
	Revisions []*entities.RevisionSummary `json:"revisions,omitempty"`
}

type DeployRequest struct {
	Token string `json:"token"`
	App   string `json:"app"`
	Envs  string `json:"envs" example:"dev,staging"`
}

// Validate returns the known environments of the request.
func (request *DeployRequest) Validate() ([]entities.DeployEnv, error) {
	request.App = strings.TrimSpace(request.App)
	if request.App == "" {
		return nil, errors.New("app is required")
	}
	envs := entities.ParseDeployEnvs(request.Envs)
	if len(envs) == 0 {
		return nil, errors.New("no known env in envs")
	}
	return envs, nil
}

// SlackCommand is the form payload of a chat slash command.
type SlackCommand struct {
	Token    string `form:"token"`
	Text     string `form:"text"`
	UserName string `form:"user_name"`
}
