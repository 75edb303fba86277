package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Assemble (optional), scan, resolve owners and write reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			result, err := a.doctor.Run(cmd.Context())
			if result != nil {
				out := cmd.OutOrStdout()
				printWarnings(out, result.Scan.Err())
				printWarnings(out, result.Owners.Err())
				printReport(out, result)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.assemble, "assemble", false, "Run the assemble command before scanning")
	cmd.Flags().StringVar(&opts.assembleCommand, "assemble-command", "", "Shell command that builds the variant outputs")
	return cmd
}
