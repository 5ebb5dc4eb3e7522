package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/docqa-client/internal/builder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func telegramCMD(environment *string) *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, logger, err := builder.BuildTelegramBot(*environment)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting telegram bot...")
			if err := bot.Start(ctx); err != nil {
				logger.Error("telegram bot error", zap.Error(err))
				return err
			}

			<-ctx.Done()
			logger.Info("received shutdown signal")

			if err := bot.Stop(); err != nil {
				logger.Error("error stopping bot", zap.Error(err))
				return err
			}
			logger.Info("telegram bot stopped gracefully")
			return nil
		},
	}
}
