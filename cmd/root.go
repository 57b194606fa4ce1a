package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pagebridge",
	Short: "Facebook Messenger channel adapter",
	Long:  "Pagebridge bridges Facebook Messenger webhooks and the Send API into a normalized bot message model.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
