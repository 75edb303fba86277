package main

import (
	"github.com/spf13/cobra"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Aggregate stored findings and owners into the final reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			result, err := a.doctor.RunReport(cmd.Context())
			if result != nil {
				printReport(cmd.OutOrStdout(), result)
			}
			return err
		},
	}
}
