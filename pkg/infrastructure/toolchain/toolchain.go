package toolchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/internal/utils"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"go.uber.org/zap"
)

const envPlaceholder = "{env}"

// DefaultBuildCommand is the ember-cli-deploy invocation; {env} is replaced
// with the target environment.
var DefaultBuildCommand = []string{"ember", "deploy", envPlaceholder, "--verbose"}

// DefaultInstallCommands prepare the ember toolchain in the workspace.
var DefaultInstallCommands = [][]string{
	{"npm", "install"},
	{"npx", "bower", "install"},
}

// BuildError is returned when the build exits non-zero. Output holds the
// combined stdout and stderr.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Runner drives the external build toolchain inside a workspace directory.
type Runner struct {
	workDir         string
	installCommands [][]string
	buildCommand    []string
}

func NewRunner(workDir string, installCommands [][]string, buildCommand []string) *Runner {
	if len(installCommands) == 0 {
		installCommands = DefaultInstallCommands
	}
	if len(buildCommand) == 0 {
		buildCommand = DefaultBuildCommand
	}
	return &Runner{
		workDir:         workDir,
		installCommands: installCommands,
		buildCommand:    buildCommand,
	}
}

func (r *Runner) WorkDir() string {
	return r.workDir
}

// WriteEnvFile replaces the env file the build reads for env.
func (r *Runner) WriteEnvFile(env entities.DeployEnv, vars map[string]string) (string, error) {
	path := utils.GetEnvFilePath(r.workDir, env)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to remove env file: %w", err)
	}
	if err := godotenv.Write(vars, path); err != nil {
		return "", fmt.Errorf("failed to write env file: %w", err)
	}
	return path, nil
}

func (r *Runner) Install(ctx context.Context) error {
	for _, args := range r.installCommands {
		if len(args) == 0 {
			continue
		}
		logger.Info("running install command", zap.Strings("command", args))
		out, err := r.command(ctx, args).CombinedOutput()
		if err != nil {
			logger.Error("install command failed",
				zap.Strings("command", args),
				zap.String("output", string(out)),
				zap.Error(err))
			return fmt.Errorf("failed to run %s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}

// Build runs the build for env and returns its combined output.
func (r *Runner) Build(ctx context.Context, env entities.DeployEnv) (string, error) {
	args := make([]string, len(r.buildCommand))
	for i, arg := range r.buildCommand {
		args[i] = strings.ReplaceAll(arg, envPlaceholder, env.String())
	}

	logger.Info("running build", zap.Strings("command", args))
	out, err := r.command(ctx, args).CombinedOutput()
	if err != nil {
		return string(out), &BuildError{Output: string(out), Err: err}
	}
	return string(out), nil
}

// ReadManifest loads the build tool manifest (config.json).
func (r *Runner) ReadManifest() (map[string]interface{}, error) {
	data, err := os.ReadFile(utils.GetManifestPath(r.workDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	manifest := make(map[string]interface{})
	if len(bytes.TrimSpace(data)) == 0 {
		return manifest, nil
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return manifest, nil
}

// WriteManifest replaces config.json and returns the written bytes.
func (r *Runner) WriteManifest(manifest map[string]interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(utils.GetManifestPath(r.workDir), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return data, nil
}

func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()
	return cmd
}
