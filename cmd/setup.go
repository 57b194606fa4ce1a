package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"pagebridge/pkg/channel/facebook"
	"pagebridge/pkg/config"
	"pagebridge/pkg/logger"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Push the messenger profile to Facebook",
	Long:  "Builds greeting, persistent menu, and get-started settings from services.yml and pushes them to the thread-settings endpoint.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.setup")

		setup := cfg.Facebook.Setup
		profile, err := facebook.BuildProfile(setup, setup.OptionNames())
		if err != nil {
			log.Error("Failed to build messenger profile", "error", err)
			return
		}

		client := facebook.NewClient(cfg.Facebook, appLogger)
		resp, err := client.SetProfile(context.Background(), profile)
		if err != nil {
			log.Error("Failed to push messenger profile", "error", err)
			return
		}

		log.Info("Messenger profile updated", "options", setup.OptionNames(), "status", resp.Status)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
