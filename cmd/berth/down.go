package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"berth/cmd/config"
)

func newDownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the named container without relaunching it",
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

			if err := svc.Teardown(ctx, desired); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", desired.ContainerName())
			return nil
		},
	}
	config.RegisterSpecFlags(cmd.Flags())
	return cmd
}
