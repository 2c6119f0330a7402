package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/db"
	"github.com/mauv0809/finmetrics/internal/ingest"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate Postgres and load a dataset into it",
	Long:  "Runs migrations, then replaces the stored dataset with the embedded one or with --from <file>.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if cfg.Database.URL == "" {
			return eris.New("seed: database.url (or DATABASE_URL) is required")
		}

		var src ingest.Source = ingest.EmbeddedSource{}
		if from, _ := cmd.Flags().GetString("from"); from != "" {
			src = ingest.NewFileSource(from)
		}
		records, err := src.Load(ctx)
		if err != nil {
			return err
		}

		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
		pool, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := db.NewRepository(pool).ReplaceDataset(ctx, records)
		if err != nil {
			return err
		}
		logger.Info("dataset seeded", zap.Int("companies", len(records)), zap.Int64("rows", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d observations for %d companies\n", n, len(records))
		return nil
	},
}

func init() {
	seedCmd.Flags().String("from", "", "JSON or YAML dataset file (default: embedded dataset)")
	rootCmd.AddCommand(seedCmd)
}
