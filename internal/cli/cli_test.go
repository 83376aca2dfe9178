package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"go.uber.org/zap"
)

func init() {
	color.NoColor = true
}

func TestBuildRevisionFilter(t *testing.T) {
	filter, err := buildRevisionFilter("staging", "2024-03-01", 5, 10, "id")
	require.NoError(t, err)
	assert.Equal(t, entities.DeployEnvStaging, filter.Env)
	assert.Equal(t, 5, filter.Offset)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, entities.RevisionSortByID, filter.Sort)
	require.NotNil(t, filter.CreatedFrom)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *filter.CreatedFrom)

	filter, err = buildRevisionFilter("", "2024-03-01T10:00:00+02:00", 0, 50, "created")
	require.NoError(t, err)
	assert.Empty(t, filter.Env)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), *filter.CreatedFrom)

	_, err = buildRevisionFilter("moon", "", 0, 50, "created")
	assert.Error(t, err)
	_, err = buildRevisionFilter("", "yesterday", 0, 50, "created")
	assert.Error(t, err)
	_, err = buildRevisionFilter("", "", 0, 50, "name")
	assert.Error(t, err)
}

func TestPrintRevisions(t *testing.T) {
	var buf bytes.Buffer
	printRevisions(&buf, nil)
	assert.Equal(t, consts.NoRevisions+"\n", buf.String())

	buf.Reset()
	printRevisions(&buf, []*entities.RevisionSummary{{
		CommitSHA:     "abc123d",
		DeployEnv:     entities.DeployEnvDev,
		RecordCreated: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:        entities.RevisionStatusSuccess,
		Tag:           "v1.0",
		CommitMessage: "fix header",
		CommitAuthor:  "Sam",
	}})
	out := buf.String()
	assert.Contains(t, out, "abc123d")
	assert.Contains(t, out, "2024-01-02 03:04:05")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "(v1.0)")
	assert.Contains(t, out, "fix header <Sam>")
}

func TestPrintDeployResult(t *testing.T) {
	path := "web/myapp/abc123"
	var buf bytes.Buffer
	ok := printDeployResult(&buf, &entities.RevisionEntity{
		App:           "myapp",
		DeployEnv:     entities.DeployEnvDev,
		CommitSHA:     "abc123",
		IndexHTMLPath: &path,
		Status:        entities.RevisionStatusSuccess,
	})
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "myapp -> dev: success")
	assert.Contains(t, buf.String(), "published: web/myapp/abc123")
	assert.Contains(t, buf.String(), "activate -a myapp -e dev abc123")

	buf.Reset()
	ok = printDeployResult(&buf, &entities.RevisionEntity{
		App:       "myapp",
		DeployEnv: entities.DeployEnvStaging,
		Status:    entities.RevisionStatusFailed,
		BuildLog:  consts.EnvFileFailureLog,
	})
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "myapp -> staging: failed")
	assert.Contains(t, buf.String(), consts.EnvFileFailureLog)
}

func TestRootRegistersCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "deploy", "migrate", "revisions", "activate"} {
		assert.Contains(t, names, want)
	}
}

func TestBootstrap_LogLevelFromEnvFile(t *testing.T) {
	// Register restores, then clear so the file is the only source.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))

	previous := logger.L()
	t.Cleanup(func() { logger.Set(previous) })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=debug\n"), 0o600))

	Bootstrap(envFile)
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.True(t, logger.L().Core().Enabled(zap.DebugLevel))
}

func TestBootstrap_MissingEnvFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	previous := logger.L()
	t.Cleanup(func() { logger.Set(previous) })

	Bootstrap(filepath.Join(t.TempDir(), "missing.env"))
	assert.False(t, logger.L().Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.L().Core().Enabled(zap.ErrorLevel))
}
