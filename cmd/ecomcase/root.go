package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pedro24681/sql-ecommerce-case-study/analytics"
	"github.com/Pedro24681/sql-ecommerce-case-study/config"
	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/loader"
)

const version = "1.0.0"

type rootFlags struct {
	configPath string
	dataDir    string
	asOf       string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "ecomcase",
		Short:         "Derived order analytics: RFM, cohorts, growth, churn, basket",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "ecomcase.yaml", "Config file path")
	cmd.PersistentFlags().StringVarP(&flags.dataDir, "data", "d", "", "CSV data directory (overrides configured database)")
	cmd.PersistentFlags().StringVar(&flags.asOf, "as-of", "", "Reference date (YYYY-MM-DD or RFC3339)")

	cmd.AddCommand(newReportCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))

	return cmd
}

// loadConfig reads configuration and applies the --as-of override.
func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.asOf != "" {
		cfg.ReferenceTime = flags.asOf
		if _, _, err := cfg.ParseReferenceTime(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// loadSnapshot reads the snapshot from the CSV directory when --data is
// given, otherwise from the configured database.
func loadSnapshot(ctx context.Context, cfg config.Config, flags *rootFlags) (*dataset.Snapshot, error) {
	if flags.dataDir != "" {
		return loader.LoadDir(flags.dataDir)
	}

	db, err := loader.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loader.Load(ctx, db)
}

// referenceClock builds the clock: pinned when configured, wall clock
// otherwise. The wall clock is read only here, at the boundary.
func referenceClock(cfg config.Config) (analytics.ReferenceClock, error) {
	t, pinned, err := cfg.ParseReferenceTime()
	if err != nil {
		return nil, err
	}
	if pinned {
		return analytics.FixedClock(t), nil
	}
	return analytics.WallClock{}, nil
}

func resolveAsOf(cfg config.Config) (time.Time, error) {
	clock, err := referenceClock(cfg)
	if err != nil {
		return time.Time{}, err
	}
	return clock.Now(), nil
}

func describeSnapshot(snap *dataset.Snapshot) string {
	return fmt.Sprintf("%d customers, %d orders, %d line items",
		len(snap.Customers), len(snap.Orders), len(snap.Items))
}
