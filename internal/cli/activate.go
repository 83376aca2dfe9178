package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/frontend-deploy/internal/config"
	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
)

var (
	activateApp       string
	activateEnv       string
	activateConfigDir string
)

var activateCmd = &cobra.Command{
	Use:   "activate <sha-prefix|tag>",
	Short: "Make a recorded revision the live entry page",
	Long: `Copy the entry page of a recorded successful revision to the live index of
the environment. A selector containing a dot is matched as a release tag,
anything else as a commit sha prefix. The earliest matching revision wins.`,
	Args: cobra.ExactArgs(1),
	Run:  runActivate,
}

func init() {
	activateCmd.Flags().StringVarP(&activateApp, "app", "a", "", "App name")
	activateCmd.Flags().StringVarP(&activateEnv, "env", "e", "", "Environment")
	activateCmd.Flags().StringVarP(&activateConfigDir, "config", "c", "", "Deploy config directory (defaults to CONFIG_DIR)")
	_ = activateCmd.MarkFlagRequired("app")
	_ = activateCmd.MarkFlagRequired("env")
}

func runActivate(cmd *cobra.Command, args []string) {
	env, err := entities.ParseDeployEnv(activateEnv)
	if err != nil {
		exitError("%v", err)
	}

	c := initServiceContext(func(cfg *config.Config) {
		if activateConfigDir != "" {
			cfg.ConfigDir = activateConfigDir
		}
	})
	defer c.Close()

	result := c.Server.Activator.Activate(context.Background(), activateApp, env, args[0])
	if result != consts.ActivationDone {
		exitError("%s", result)
	}
	color.Green("%s", result)
	fmt.Printf("%s %s now serves %s\n", activateApp, env, args[0])
}
