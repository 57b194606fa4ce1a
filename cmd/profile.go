package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"pagebridge/pkg/channel/facebook"
	"pagebridge/pkg/config"
	"pagebridge/pkg/logger"

	"github.com/spf13/cobra"
)

var profileFields []string

var profileCmd = &cobra.Command{
	Use:   "profile <recipient-id>",
	Short: "Fetch a user profile",
	Long:  "Fetches the Graph API profile of one page-scoped user id and prints it as JSON.",
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
		profile, err := client.FetchProfile(context.Background(), args[0], profileFields)
		if err != nil {
			fmt.Printf("failed to fetch profile: %v\n", err)
			return
		}

		encoded, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			fmt.Printf("failed to encode profile: %v\n", err)
			return
		}

		fmt.Println(string(encoded))
	},
}

func init() {
	profileCmd.Flags().StringSliceVar(&profileFields, "fields", nil, "profile fields to request (default id,name,first_name,last_name,profile_pic)")
	rootCmd.AddCommand(profileCmd)
}
