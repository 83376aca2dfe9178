package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

const fieldSeparator = "\x1f"

// Repository reads commit metadata from a git work tree.
type Repository struct {
	dir string
}

func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// CommitInfo describes HEAD. Tag is the first tag pointing at HEAD, if any.
func (r *Repository) CommitInfo(ctx context.Context) (*entities.CommitInfo, error) {
	sha, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}
	sha = strings.TrimSpace(sha)

	out, err := r.run(ctx, "show", "-s", "--format=%B%x1f%an%x1f%ae%x1f%ci", sha)
	if err != nil {
		return nil, err
	}
	fields := strings.Split(strings.TrimRight(out, "\n"), fieldSeparator)
	if len(fields) != 4 {
		return nil, fmt.Errorf("unexpected git show output for %s", sha)
	}

	info := &entities.CommitInfo{
		SHA:     sha,
		Message: flattenLines(fields[0]),
		Author:  strings.TrimSpace(fields[1]),
		Email:   strings.TrimSpace(fields[2]),
		Date:    strings.TrimSpace(fields[3]),
	}

	tags, err := r.run(ctx, "tag", "--points-at", sha)
	if err != nil {
		return info, nil
	}
	if lines := strings.Fields(tags); len(lines) > 0 {
		info.Tag = lines[0]
	}
	return info, nil
}

func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

func flattenLines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
