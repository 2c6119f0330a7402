package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mauv0809/finmetrics/internal/bootstrap"
	"github.com/mauv0809/finmetrics/internal/dataset"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the normalized observations of the configured dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		exp := dataset.NewExporter(format)
		if exp == nil {
			return eris.Errorf("unknown export format %q (use json, csv, parquet or xlsx)", format)
		}
		if out == "" {
			out = "observations." + exp.Extension()
		}

		ds, err := bootstrap.OpenDataset(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer ds.Close()

		raw, err := ds.Source.Load(ctx)
		if err != nil {
			return eris.Wrap(err, "export: load dataset")
		}
		res := dataset.Normalize(raw)

		if err := exp.Export(res.Observations, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d observations to %s\n", len(res.Observations), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "output format: json, csv, parquet or xlsx")
	exportCmd.Flags().String("out", "", "output path (default observations.<ext>)")
	rootCmd.AddCommand(exportCmd)
}
