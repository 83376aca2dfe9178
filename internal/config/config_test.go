package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MANAGER_TOKENS", " alpha, ,beta ")
	t.Setenv("BUILD_COMMAND", "ember deploy {env} --verbose")
	t.Setenv("INSTALL_COMMANDS", "npm install; ;npx bower install")

	cfg := Load()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ManagerTokens)
	assert.Equal(t, []string{"ember", "deploy", "{env}", "--verbose"}, cfg.BuildCommand)
	assert.Equal(t, [][]string{{"npm", "install"}, {"npx", "bower", "install"}}, cfg.InstallCommands)
}

func TestLoad_Empty(t *testing.T) {
	t.Setenv("MANAGER_TOKENS", "")
	t.Setenv("INSTALL_COMMANDS", "")
	t.Setenv("BUILD_COMMAND", "")

	cfg := Load()
	assert.Nil(t, cfg.ManagerTokens)
	assert.Nil(t, cfg.InstallCommands)
	assert.Empty(t, cfg.BuildCommand)
}
