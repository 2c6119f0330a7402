package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mauv0809/finmetrics/internal/chart"
	"github.com/mauv0809/finmetrics/internal/models"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a chart for one company and metric",
	Long:  "Fetches the series and writes it as SVG or PNG, chosen by the --out extension.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		company, _ := cmd.Flags().GetString("company")
		metric, _ := cmd.Flags().GetString("metric")
		out, _ := cmd.Flags().GetString("out")

		write, err := chartWriter(out)
		if err != nil {
			return err
		}

		resp, err := newClient().Data(cmd.Context(), company, metric)
		if err != nil {
			return err
		}

		if err := writeChartFile(out, resp, write); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d points)\n", out, len(resp.Points))
		return nil
	},
}

// chartWriter picks the back end for the output file extension.
func chartWriter(path string) (func(io.Writer, chart.Drawing) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return chart.WriteSVG, nil
	case ".png":
		return chart.WritePNG, nil
	default:
		return nil, eris.Errorf("unsupported chart format %q (use .svg or .png)", filepath.Ext(path))
	}
}

// writeChartFile renders in memory first so a failed render leaves no file behind.
func writeChartFile(path string, resp *models.DataResponse, write func(io.Writer, chart.Drawing) error) error {
	title := fmt.Sprintf("%s (%s) - %s", resp.Company.Name, resp.Company.Ticker, resp.Metric)

	var buf bytes.Buffer
	if err := write(&buf, chart.Render(resp.Points, title)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "chart: write %s", path)
	}
	return nil
}

func init() {
	chartCmd.Flags().String("out", "chart.svg", "output file (.svg or .png)")
	rootCmd.AddCommand(chartCmd)
}
