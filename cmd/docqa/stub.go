package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/docqa-client/internal/builder"
	"github.com/spf13/cobra"
)

func stubBackendCMD(environment *string) *cobra.Command {
	var addr string
	var logLevel string

	var stub = &cobra.Command{
		Use:   "stub-backend",
		Short: "Serve a local stand-in for the QA service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := builder.BuildStubBackend(*environment, addr, logLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx)
		},
	}
	stub.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	stub.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return stub
}
