package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pagebridge/pkg/bus"
	"pagebridge/pkg/channel"
	"pagebridge/pkg/channel/facebook"
	"pagebridge/pkg/config"
	"pagebridge/pkg/logger"

	"github.com/spf13/cobra"
)

var serveEcho bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Messenger webhook server",
	Long:  "Serves the Facebook webhook endpoint, normalizes inbound events, and transmits handler replies through the Send API.",
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
		log := slog.Default().With("component", "cmd.serve")

		adapter, err := facebook.NewAdapter(cfg.Facebook, appLogger)
		if err != nil {
			log.Error("Channel configuration invalid", "error", err)
			return
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("Webhook server starting", "channel", adapter.Name(), "echo", serveEcho)
		if err := adapter.Run(runCtx, serveHandler(log)); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Webhook server failed", "error", err)
		}
	},
}

// serveHandler is the standalone handler: it logs every normalized event
// and, in echo mode, answers text messages with their own content. A real
// deployment replaces this with the conversation engine's channel.Handler.
func serveHandler(log *slog.Logger) channel.Handler {
	return func(_ context.Context, inbound bus.InboundMessage) ([]bus.Reply, error) {
		log.Info("Normalized event",
			"sender_id", inbound.SenderID,
			"text", inbound.Text,
			"payload", inbound.Payload,
			"attachments", len(inbound.Attachments),
		)

		if serveEcho && inbound.Text != "" {
			return []bus.Reply{{Kind: bus.ReplyText, Text: inbound.Text}}, nil
		}

		return nil, nil
	}
}

func init() {
	serveCmd.Flags().BoolVar(&serveEcho, "echo", false, "echo inbound text messages back to the sender")
	rootCmd.AddCommand(serveCmd)
}
