package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/frontend-deploy/internal/config"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

var (
	deployConfigDir string
	deployApp       string
	deployEnvs      string
	deployWorkDir   string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build and publish an app to one or more environments",
	Long: `Build the app checked out in the working directory and publish it for every
listed environment, one after another. Unknown environment names are ignored.
Each attempt is recorded in the revision ledger, successful or not.`,
	Example: `  frontend-deploy deploy -c ./deploy-config -a myapp -e dev,staging`,
	Run:     runDeploy,
}

func init() {
	deployCmd.Flags().StringVarP(&deployConfigDir, "config", "c", "", "Deploy config directory (defaults to CONFIG_DIR)")
	deployCmd.Flags().StringVarP(&deployApp, "app", "a", "", "App name")
	deployCmd.Flags().StringVarP(&deployEnvs, "env", "e", "", "Comma separated environments")
	deployCmd.Flags().StringVarP(&deployWorkDir, "workdir", "w", "", "App checkout directory (defaults to WORKSPACE_DIR)")
	_ = deployCmd.MarkFlagRequired("app")
	_ = deployCmd.MarkFlagRequired("env")
}

func runDeploy(cmd *cobra.Command, args []string) {
	envs := entities.ParseDeployEnvs(deployEnvs)
	if len(envs) == 0 {
		exitError("no known environment in %q", deployEnvs)
	}

	c := initServiceContext(func(cfg *config.Config) {
		if deployConfigDir != "" {
			cfg.ConfigDir = deployConfigDir
		}
		if deployWorkDir != "" {
			cfg.WorkspaceDir = deployWorkDir
		}
	})
	defer c.Close()

	ctx := context.Background()
	failures := 0
	for _, env := range envs {
		revision, err := c.Server.Deployer.Run(ctx, deployApp, env)
		if err != nil {
			exitError("failed to record deploy of %s to %s: %v", deployApp, env, err)
		}
		if !printDeployResult(os.Stdout, revision) {
			failures++
		}
	}

	if failures > 0 {
		exitError("%d of %d deploys failed", failures, len(envs))
	}
}

// printDeployResult reports one recorded attempt and whether it succeeded.
func printDeployResult(w io.Writer, revision *entities.RevisionEntity) bool {
	fmt.Fprintf(w, "%s -> %s: ", revision.App, revision.DeployEnv)
	if revision.Status != entities.RevisionStatusSuccess {
		color.New(color.FgRed).Fprintln(w, revision.Status)
		if revision.BuildLog != "" {
			fmt.Fprintf(w, "%s\n", revision.BuildLog)
		}
		return false
	}

	color.New(color.FgGreen).Fprintln(w, revision.Status)
	if revision.IndexHTMLPath != nil {
		fmt.Fprintf(w, "  published: %s\n", *revision.IndexHTMLPath)
	}
	fmt.Fprintf(w, "  activate:  frontend-deploy activate -a %s -e %s %s\n",
		revision.App, revision.DeployEnv, revision.CommitSHA)
	return true
}
