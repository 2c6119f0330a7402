package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/chart"
	"github.com/mauv0809/finmetrics/internal/client"
	"github.com/mauv0809/finmetrics/internal/models"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		companies, err := newClient().Companies(cmd.Context())
		if err != nil {
			return err
		}
		formatList(cmd.OutOrStdout(), companies)
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		metrics, err := newClient().Metrics(cmd.Context())
		if err != nil {
			return err
		}
		formatList(cmd.OutOrStdout(), metrics)
		return nil
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Load companies and metrics together",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := newClient().LoadOptions(cmd.Context())
		if err != nil {
			return err
		}
		formatOptions(cmd.OutOrStdout(), opts)
		return nil
	},
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Print the series for one company and metric",
	RunE: func(cmd *cobra.Command, _ []string) error {
		company, _ := cmd.Flags().GetString("company")
		metric, _ := cmd.Flags().GetString("metric")

		resp, err := newClient().Data(cmd.Context(), company, metric)
		if err != nil {
			return err
		}
		formatSeries(cmd.OutOrStdout(), resp)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load a chart for every \"company|metric\" line read from stdin",
	Long: "Reads selections from stdin, one \"company|metric\" per line. Each new selection " +
		"supersedes the one still loading; only the latest result is printed.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return watch(cmd.Context(), newClient().NewChartLoader(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// watch drives a chart loader from line-based selections.
func watch(ctx context.Context, loader *client.ChartLoader, in io.Reader, out io.Writer) error {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		company, metric, ok := strings.Cut(scanner.Text(), "|")
		if !ok {
			logger.Warn("ignoring selection without metric", zap.String("line", scanner.Text()))
			continue
		}

		// Begin runs here so generations follow input order.
		pending := loader.Begin(ctx)
		wg.Add(1)
		go func(company, metric string) {
			defer wg.Done()
			resp, err := pending.Fetch(strings.TrimSpace(company), strings.TrimSpace(metric))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, client.ErrSuperseded):
				logger.Debug("discarded stale selection", zap.String("company", company), zap.String("metric", metric))
			case err != nil:
				fmt.Fprintf(out, "error: %v\n", err)
			default:
				formatSeries(out, resp)
			}
		}(company, metric)
	}
	wg.Wait()

	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "watch: read selections")
	}
	return nil
}

func formatList(w io.Writer, items []string) {
	for _, it := range items {
		fmt.Fprintln(w, it)
	}
}

func formatOptions(w io.Writer, opts client.Options) {
	fmt.Fprintf(w, "Companies (%d):\n", len(opts.Companies))
	for _, c := range opts.Companies {
		fmt.Fprintf(w, "  %s\n", c)
	}
	fmt.Fprintf(w, "Metrics (%d):\n", len(opts.Metrics))
	for _, m := range opts.Metrics {
		fmt.Fprintf(w, "  %s\n", m)
	}
}

func formatSeries(w io.Writer, resp *models.DataResponse) {
	fmt.Fprintf(w, "%s (%s) - %s\n", resp.Company.Name, resp.Company.Ticker, resp.Metric)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tVALUE\t")
	for _, p := range resp.Points {
		fmt.Fprintf(tw, "%d\t%s\t\n", p.Year, chart.FormatValue(p.Value))
	}
	tw.Flush()
}

func init() {
	for _, c := range []*cobra.Command{dataCmd, chartCmd} {
		c.Flags().String("company", "", "company name (case-insensitive)")
		c.Flags().String("metric", "", "metric name (case-insensitive)")
		_ = c.MarkFlagRequired("company")
		_ = c.MarkFlagRequired("metric")
	}
	rootCmd.AddCommand(companiesCmd, metricsCmd, optionsCmd, dataCmd, watchCmd)
}
