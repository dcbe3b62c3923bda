package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"berth/cmd/config"
	"berth/internal/adapters/builder"
	"berth/internal/adapters/docker"
	"berth/internal/adapters/fs"
	"berth/internal/core/domain"
	"berth/internal/core/reconciler"
)

// reconcileService is the surface the commands need from the core; a
// mock can be injected through the command context in tests.
type reconcileService interface {
	Reconcile(ctx context.Context, desired domain.DesiredState) (domain.RunningContainer, error)
	Teardown(ctx context.Context, desired domain.DesiredState) error
	Status(ctx context.Context, desired domain.DesiredState) (domain.ObservedState, error)
	Logs(ctx context.Context, desired domain.DesiredState) (io.ReadCloser, error)
}

type mockServiceKey struct{}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "berth",
		Short:         "Converge a single named container to its desired running state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(configFile); err != nil {
				return err
			}
			flags := cmd.Root().PersistentFlags()
			_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
			_ = viper.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./berth.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Duration("timeout", 5*time.Minute, "deadline for one whole invocation")

	cmd.AddCommand(newUpCmd())
	cmd.AddCommand(newDownCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(config.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(level)
}

// serviceFromCmd returns the injected mock when tests put one in the
// command context, otherwise wires the real adapters.
func serviceFromCmd(cmd *cobra.Command) (reconcileService, error) {
	if mock, ok := cmd.Context().Value(mockServiceKey{}).(reconcileService); ok {
		return mock, nil
	}

	log := newLogger()
	runtime, err := docker.NewAdapter()
	if err != nil {
		return nil, err
	}
	imageBuilder, err := builder.NewAdapter(log)
	if err != nil {
		return nil, err
	}
	return reconciler.New(runtime, imageBuilder, fs.NewAdapter(), log), nil
}

// invocationContext applies the configured deadline to the command
// context.
func invocationContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := config.Timeout()
	if timeout <= 0 {
		return cmd.Context(), func() {}
	}
	return context.WithTimeout(cmd.Context(), timeout)
}
