package entities

import (
	"fmt"
	"strings"
)

type DeployEnv string

const (
	DeployEnvDev        DeployEnv = "dev"
	DeployEnvStaging    DeployEnv = "staging"
	DeployEnvTest       DeployEnv = "test"
	DeployEnvProduction DeployEnv = "production"
)

var AvailableDeployEnvs = []DeployEnv{
	DeployEnvDev,
	DeployEnvStaging,
	DeployEnvTest,
	DeployEnvProduction,
}

func (e DeployEnv) IsValid() bool {
	for _, env := range AvailableDeployEnvs {
		if e == env {
			return true
		}
	}
	return false
}

func (e DeployEnv) String() string {
	return string(e)
}

func ParseDeployEnv(value string) (DeployEnv, error) {
	env := DeployEnv(strings.TrimSpace(value))
	if !env.IsValid() {
		return "", fmt.Errorf("unknown deploy env %q", value)
	}
	return env, nil
}

// ParseDeployEnvs splits a comma separated list and keeps the known
// environments in the given order. Unknown names are dropped.
func ParseDeployEnvs(value string) []DeployEnv {
	envs := make([]DeployEnv, 0)
	for _, part := range strings.Split(value, ",") {
		env, err := ParseDeployEnv(part)
		if err != nil {
			continue
		}
		envs = append(envs, env)
	}
	return envs
}

type RevisionStatus string

const (
	RevisionStatusPending RevisionStatus = "pending"
	RevisionStatusSuccess RevisionStatus = "success"
	RevisionStatusFailed  RevisionStatus = "failed"
)

type RevisionSort string

const (
	RevisionSortByCreated RevisionSort = "created"
	RevisionSortByID      RevisionSort = "id"
)
