package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the snapshot and report schema violations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			snap, err := loadSnapshot(cmd.Context(), cfg, flags)
			var verr *dataset.ValidationError
			if errors.As(err, &verr) {
				color.Red("%d schema violation(s):", len(verr.Violations))
				for _, v := range verr.Violations {
					color.Red("  - %s", v)
				}
				return err
			}
			if err != nil {
				return err
			}

			color.Green("Snapshot valid: %s", describeSnapshot(snap))
			return nil
		},
	}
}
