package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"berth/cmd/config"
	httpapi "berth/internal/adapters/http"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reconcile API and a preview proxy for the running container",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			config.BindSpecFlags(cmd.Flags())
			_ = viper.BindPFlag(config.KeyListenAddr, cmd.Flags().Lookup("listen"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := serviceFromCmd(cmd)
			if err != nil {
				return err
			}

			log := newLogger()
			desired, err := config.DesiredState()
			if err != nil {
				return err
			}

			handler := httpapi.NewHandler(svc, desired)
			proxy := httpapi.NewProxyHandler(svc, desired)

			app := fiber.New(fiber.Config{DisableStartupMessage: true})

			api := app.Group("/api")
			v1 := api.Group("/v1")
			v1.Post("/reconcile", handler.Reconcile)
			v1.Get("/status", handler.Status)
			v1.Get("/logs", handler.Logs)

			// Everything else previews the deployed app.
			app.All("/*", proxy.ProxyRequest)

			addr := config.ListenAddr()
			log.Info().Str("addr", addr).Str("container", desired.ContainerName()).Msg("server starting")
			return app.Listen(addr)
		},
	}
	config.RegisterSpecFlags(cmd.Flags())
	cmd.Flags().String("listen", ":3000", "listen address")
	return cmd
}
