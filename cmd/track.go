package cmd

import (
	"context"
	"fmt"

	"pagebridge/pkg/channel/facebook"
	"pagebridge/pkg/config"
	"pagebridge/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	trackMetric string
	trackValue  float64
)

var trackCmd = &cobra.Command{
	Use:   "track <recipient-id>",
	Short: "Send a custom app event",
	Long:  "Reports one custom app event for a page-scoped user against the configured app id.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
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

		client := facebook.NewClient(cfg.Facebook, appLogger)
		if _, err := client.Track(context.Background(), args[0], trackMetric, trackValue, nil); err != nil {
			fmt.Printf("failed to track event: %v\n", err)
			return
		}

		fmt.Printf("tracked %s=%v for %s\n", trackMetric, trackValue, args[0])
	},
}

func init() {
	trackCmd.Flags().StringVar(&trackMetric, "metric", "", "metric name to report")
	trackCmd.Flags().Float64Var(&trackValue, "value", 0, "value to sum for the metric")
	_ = trackCmd.MarkFlagRequired("metric")
	rootCmd.AddCommand(trackCmd)
}
