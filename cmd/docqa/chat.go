package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/docqa-client/internal/builder"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func chatCMD(environment *string) *cobra.Command {
	var noColor bool

	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Chat with the QA service in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, logger, err := builder.BuildChat(*environment, builder.ChatOptions{
				Out:     cmd.OutOrStdout(),
				NoColor: noColor,
			})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctx = ctxzap.ToContext(ctx, logger)
			if err := client.Run(ctx, cmd.InOrStdin()); err != nil {
				logger.Error("chat client stopped with error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	chat.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return chat
}
