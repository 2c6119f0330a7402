package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/client"
	"github.com/mauv0809/finmetrics/internal/config"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "finctl",
	Short: "Query and chart company financial metrics",
	Long:  "Command-line client for the financial metrics API: list companies and metrics, fetch series, render charts and manage the dataset.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := config.NewLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// newClient builds an API client from the loaded configuration.
func newClient() *client.Client {
	return client.New(cfg.APIBaseURL(),
		client.WithTimeout(cfg.Client.Timeout()),
		client.WithRetryPolicy(client.RetryPolicy{
			MaxAttempts: cfg.Client.MaxAttempts,
			Delay:       cfg.Client.RetryDelay(),
		}),
		client.WithMinLoadDelay(cfg.Client.MinLoadDelay()),
		client.WithLogger(logger),
	)
}

func init() {
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
