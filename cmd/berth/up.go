package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"berth/cmd/config"
)

func newUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run one reconcile pass: build if asked, ensure the volume, replace the stale container, launch",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			config.BindSpecFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := serviceFromCmd(cmd)
			if err != nil {
				return err
			}

			desired, err := config.DesiredState()
			if err != nil {
				return err
			}

			ctx, cancel := invocationContext(cmd)
			defer cancel()

			running, err := svc.Reconcile(ctx, desired)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), running.ID)
			return nil
		},
	}
	config.RegisterSpecFlags(cmd.Flags())
	return cmd
}
