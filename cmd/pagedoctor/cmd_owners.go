package main

import (
	"github.com/spf13/cobra"
)

func newOwnersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "Resolve which module or dependency ships each native library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			owners, err := a.doctor.RunOwners(cmd.Context())
			if err != nil {
				return err
			}
			printOwners(cmd.OutOrStdout(), owners)
			return nil
		},
	}
}
