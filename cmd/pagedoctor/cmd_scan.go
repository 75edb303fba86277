package main

import (
	"github.com/spf13/cobra"
)

func newScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Measure the native libraries of the built packages and store the findings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			scan, err := a.doctor.RunScan(cmd.Context())
			if err != nil {
				return err
			}
			printScan(cmd.OutOrStdout(), scan)
			return nil
		},
	}
}
