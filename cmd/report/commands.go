package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/adapter/feed"
	"github.com/couchcryptid/covid-data-etl-service/internal/adapter/text"
	"github.com/couchcryptid/covid-data-etl-service/internal/config"
	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/couchcryptid/covid-data-etl-service/internal/observability"
	"github.com/couchcryptid/covid-data-etl-service/internal/pipeline"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	feed     string
	region   string
	exclude  []string
	timeout  time.Duration
	logLevel string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "report",
		Short:        "Reconcile the key-figures feed and print it",
		Long:         `Download (or read) the key-figures feed, reconcile one region, and print the result as a day report or a chart table.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.feed, "feed", config.DefaultFeedURL, "feed URL or local file path")
	flags.StringVar(&opts.region, "region", "FRA", "region code to reconcile")
	flags.StringSliceVar(&opts.exclude, "exclude", domain.DefaultExcludedSources, "source names to ignore")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "feed download timeout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	cmd.AddCommand(textCmd(opts))
	cmd.AddCommand(chartCmd(opts))

	return cmd
}

func textCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "text",
		Short: "Print every observation per day, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd, opts)
			if err != nil {
				return err
			}
			report := domain.BuildReport(ds, domain.DefaultCategoryNames)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return text.NewRenderer(cmd.OutOrStdout()).RenderReport(report)
		},
	}
}

func chartCmd(opts *rootOptions) *cobra.Command {
	var (
		mode   string
		hidden string
		since  string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the chart series as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := domain.ParseMode(mode)
			if err != nil {
				return err
			}
			if since != "" {
				if _, err := time.Parse(domain.DateLayout, since); err != nil {
					return fmt.Errorf("--since must be a YYYY-MM-DD date: %w", err)
				}
			} else if days > 0 {
				since = domain.RecentFloor(days)
			}

			ds, err := loadDataset(cmd, opts)
			if err != nil {
				return err
			}
			chart := domain.Project(ds, domain.ProjectOptions{
				Mode:      m,
				Hidden:    domain.ParseHidden(hidden),
				DateFloor: since,
				Names:     domain.DefaultCategoryNames,
			})
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), chart)
			}
			return text.NewRenderer(cmd.OutOrStdout()).RenderChart(chart)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "raw", "value to plot (raw, diff, rolling)")
	cmd.Flags().StringVar(&hidden, "hidden", "", "comma-separated category ids to hide")
	cmd.Flags().StringVar(&since, "since", "", "only show dates after YYYY-MM-DD")
	cmd.Flags().IntVar(&days, "days", 0, "only show the last N days up to today (ignored with --since)")

	return cmd
}

// loadDataset fetches the feed once and reconciles it with the same
// transformer the service uses.
func loadDataset(cmd *cobra.Command, opts *rootOptions) (*domain.Dataset, error) {
	logger := observability.NewConsoleLogger(cmd.ErrOrStderr(), opts.logLevel)

	var fetcher domain.FeedFetcher
	if strings.HasPrefix(opts.feed, "http://") || strings.HasPrefix(opts.feed, "https://") {
		fetcher = feed.NewClient(opts.feed, opts.timeout, logger)
	} else {
		fetcher = feed.NewFile(opts.feed)
	}

	raw, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return nil, err
	}

	transformer := pipeline.NewTransformer(domain.NormalizeOptions{
		RegionCode:      opts.region,
		ExcludedSources: opts.exclude,
	}, logger)
	ds, err := transformer.Transform(cmd.Context(), raw)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset reconciled", "region", ds.Region, "dates", ds.Stats.Dates, "records_kept", ds.Stats.RecordsKept)
	return ds, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
