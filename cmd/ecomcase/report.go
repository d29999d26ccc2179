package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Pedro24681/sql-ecommerce-case-study/analytics"
	"github.com/Pedro24681/sql-ecommerce-case-study/config"
	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
	"github.com/Pedro24681/sql-ecommerce-case-study/report"
)

var reportNames = []string{
	"rfm", "cohort", "cohort-summary", "growth-mom", "growth-yoy",
	"growth-products", "basket", "churn", "products", "daily-summary",
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var (
		outDir  string
		toCSV   bool
		noWrite bool
	)

	cmd := &cobra.Command{
		Use:       "report <name>",
		Short:     "Compute one report and export it",
		Long:      "Compute a report over the loaded snapshot.\n\nAvailable reports: rfm, cohort, cohort-summary, growth-mom, growth-yoy, growth-products, basket, churn, products, daily-summary.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: reportNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}

			snap, err := loadSnapshot(ctx, cfg, flags)
			if err != nil {
				return err
			}
			color.Cyan("Loaded snapshot: %s", describeSnapshot(snap))

			asOf, err := resolveAsOf(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			set, extra, err := runReport(ctx, args[0], cfg, snap, asOf)
			if err != nil {
				return err
			}
			color.Green("Computed %s (%d rows) in %s", set.Name, set.Len(), time.Since(start).Round(time.Millisecond))
			if extra != "" {
				color.Yellow(extra)
			}

			if toCSV {
				if err := report.WriteCSV(os.Stdout, set); err != nil {
					return err
				}
			}
			if noWrite {
				return nil
			}

			path := report.TimestampedFilename(cfg.Output.Dir, set.Name, asOf)
			if err := report.ExportJSON(path, set, asOf); err != nil {
				return err
			}
			color.Green("Exported to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides config)")
	cmd.Flags().BoolVar(&toCSV, "csv", false, "Print the recordset as CSV to stdout")
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "Skip the JSON export")
	return cmd
}

func runReport(ctx context.Context, name string, cfg config.Config, snap *dataset.Snapshot, asOf time.Time) (*engine.Recordset, string, error) {
	switch name {
	case "rfm":
		set, err := analytics.RFM(ctx, snap, asOf,
			analytics.WithWorkers(cfg.Engine.Workers),
			analytics.WithScoreBuckets(cfg.RFM.ScoreBuckets))
		return set, "", err
	case "cohort":
		set, err := analytics.CohortRetention(snap)
		return set, "", err
	case "cohort-summary":
		set, err := analytics.CohortSummary(snap)
		return set, "", err
	case "growth-mom":
		set, err := analytics.MonthOverMonth(snap)
		return set, "", err
	case "growth-yoy":
		set, err := analytics.YearOverYear(snap)
		return set, "", err
	case "growth-products":
		set, err := analytics.ProductMonthOverMonth(snap)
		return set, "", err
	case "basket":
		result, err := analytics.MarketBasket(snap,
			analytics.WithMinSupport(cfg.Basket.MinSupport),
			analytics.WithMaxLineItems(cfg.Basket.MaxLineItems))
		if err != nil {
			return nil, "", err
		}
		extra := ""
		if result.SkippedOrders > 0 {
			extra = fmt.Sprintf("%d of %d orders exceeded the %d-line-item cap and were skipped",
				result.SkippedOrders, result.TotalOrders, cfg.Basket.MaxLineItems)
		}
		return result.Set, extra, nil
	case "churn":
		set, err := analytics.ChurnRisk(snap, asOf)
		return set, "", err
	case "products":
		set, err := analytics.ProductRevenueRank(ctx, snap, analytics.WithWorkers(cfg.Engine.Workers))
		return set, "", err
	case "daily-summary":
		set, err := analytics.DailySalesSummary(snap, asOf)
		return set, "", err
	default:
		return nil, "", fmt.Errorf("unknown report %q (available: %v)", name, reportNames)
	}
}
