package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Jane Doe",
		"GIT_AUTHOR_EMAIL=jane@example.com",
		"GIT_COMMITTER_NAME=Jane Doe",
		"GIT_COMMITTER_EMAIL=jane@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0o644))
	gitCmd(t, dir, "add", ".")
	gitCmd(t, dir, "commit", "-q", "-m", "first line", "-m", "second line")
	return dir
}

func TestRepository_CommitInfo(t *testing.T) {
	dir := initRepo(t)

	info, err := NewRepository(dir).CommitInfo(context.Background())
	require.NoError(t, err)
	assert.Len(t, info.SHA, 40)
	assert.Equal(t, "Jane Doe", info.Author)
	assert.Equal(t, "jane@example.com", info.Email)
	assert.Equal(t, "first line  second line", info.Message)
	assert.NotEmpty(t, info.Date)
	assert.Empty(t, info.Tag)
}

func TestRepository_CommitInfoWithTag(t *testing.T) {
	dir := initRepo(t)
	gitCmd(t, dir, "tag", "v2.1")

	info, err := NewRepository(dir).CommitInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.1", info.Tag)
}

func TestRepository_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := NewRepository(t.TempDir()).CommitInfo(context.Background())
	assert.Error(t, err)
}
