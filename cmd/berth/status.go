package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"berth/cmd/config"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the observed state of the named container",
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

			observed, err := svc.Status(ctx, desired)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(observed, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	config.RegisterSpecFlags(cmd.Flags())
	return cmd
}
