package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

func TestRunner_WriteEnvFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(dir, nil, nil)

	stale := filepath.Join(dir, ".env.deploy.dev")
	require.NoError(t, os.WriteFile(stale, []byte("old=1\n"), 0o644))

	path, err := r.WriteEnvFile(entities.DeployEnvDev, map[string]string{
		"aws_s3_bucket_name":   "mybucket",
		"aws_s3_bucket_prefix": "myapp/20240101_000000",
	})
	require.NoError(t, err)
	assert.Equal(t, stale, path)

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "mybucket", vars["aws_s3_bucket_name"])
	assert.Equal(t, "myapp/20240101_000000", vars["aws_s3_bucket_prefix"])
	assert.NotContains(t, vars, "old")
}

func TestRunner_BuildSubstitutesEnv(t *testing.T) {
	r := NewRunner(t.TempDir(), nil, []string{"sh", "-c", "echo web/myapp/index.html:{env}"})
	out, err := r.Build(context.Background(), entities.DeployEnvStaging)
	require.NoError(t, err)
	assert.Equal(t, "web/myapp/index.html:staging\n", out)
}

func TestRunner_BuildFailureCarriesOutput(t *testing.T) {
	r := NewRunner(t.TempDir(), nil, []string{"sh", "-c", "echo compiling; echo broken >&2; exit 3"})
	out, err := r.Build(context.Background(), entities.DeployEnvDev)
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Contains(t, buildErr.Output, "compiling")
	assert.Contains(t, buildErr.Output, "broken")
	assert.Equal(t, buildErr.Output, out)
}

func TestRunner_InstallStopsOnFailure(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	r := NewRunner(dir, [][]string{
		{"sh", "-c", "exit 1"},
		{"touch", marker},
	}, nil)

	require.Error(t, r.Install(context.Background()))
	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_ManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(dir, nil, nil)

	_, err := r.ReadManifest()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"APP":{"NAME":"myapp"}}`), 0o644))
	manifest, err := r.ReadManifest()
	require.NoError(t, err)

	manifest["APP"].(map[string]interface{})["S3_BUCKET"] = "mybucket"
	data, err := r.WriteManifest(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"S3_BUCKET": "mybucket"`)

	reread, err := r.ReadManifest()
	require.NoError(t, err)
	assert.Equal(t, manifest, reread)
}
