package main

import (
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Pedro24681/sql-ecommerce-case-study/api"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(ctx, cfg, flags)
			if err != nil {
				return err
			}
			clock, err := referenceClock(cfg)
			if err != nil {
				return err
			}

			color.Cyan("Serving %s on %s", describeSnapshot(snap), cfg.API.ListenAddr)
			return api.NewServer(cfg, snap, clock).Start(ctx)
		},
	}
}
