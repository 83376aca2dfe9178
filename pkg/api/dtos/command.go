package dtos

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

var commandPattern = regexp.MustCompile(`(?s)^\s*manager\s+(.*)$`)

var ErrUnknownCommand = errors.New("unknown manager command")

type CommandAction string

const (
	CommandListRevisions CommandAction = "get"
	CommandActivate      CommandAction = "activate"
)

// ManagerCommand is a parsed chat command:
//
//	manager get APP revisions for ENV
//	manager activate APP SELECTOR on ENV
type ManagerCommand struct {
	Action   CommandAction
	App      string
	Env      entities.DeployEnv
	Selector string
}

func ParseManagerCommand(text string) (*ManagerCommand, error) {
	match := commandPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, ErrUnknownCommand
	}
	fields := strings.Fields(match[1])
	if len(fields) != 5 || !isPreposition(fields[3]) {
		return nil, ErrUnknownCommand
	}

	env, err := entities.ParseDeployEnv(fields[4])
	if err != nil {
		return nil, err
	}

	switch CommandAction(fields[0]) {
	case CommandListRevisions:
		if fields[2] != "revisions" {
			return nil, ErrUnknownCommand
		}
		return &ManagerCommand{Action: CommandListRevisions, App: fields[1], Env: env}, nil
	case CommandActivate:
		return &ManagerCommand{Action: CommandActivate, App: fields[1], Selector: fields[2], Env: env}, nil
	}
	return nil, ErrUnknownCommand
}

func isPreposition(word string) bool {
	return word == "for" || word == "on"
}
