package telegram

import (
	"context"
	"fmt"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/pkg/formatter"
	"github.com/futig/docqa-client/internal/pkg/validator"
	"github.com/futig/docqa-client/internal/session"
	"github.com/futig/docqa-client/internal/telegram/bot"
	"github.com/futig/docqa-client/internal/telegram/handlers"
	"github.com/futig/docqa-client/internal/telegram/keyboard"
	"github.com/futig/docqa-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// Deps are the collaborators the bot hands to its handlers
type Deps struct {
	Backend   session.Backend
	Storage   state.Storage
	Validator *validator.Validator
	Formatter *formatter.Factory
	Upload    config.UploadConfig
}

// NewBot authorizes against the Telegram API and wires all handlers
func NewBot(cfg *config.TelegramConfig, deps Deps, logger *zap.Logger) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	b, err := NewBotWithAPI(api, cfg, deps, logger)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewBotWithAPI wires the bot on an existing API client
func NewBotWithAPI(api bot.API, cfg *config.TelegramConfig, deps Deps, logger *zap.Logger) (*bot.Bot, error) {
	manager := state.NewManager(deps.Storage, func() *session.Controller {
		return session.NewController(deps.Backend)
	})

	b := bot.New(api, cfg, logger)
	if err := registerHandlers(b, api, cfg, manager, deps); err != nil {
		return nil, err
	}

	logger.Info("telegram bot initialized successfully")
	return b, nil
}

func registerHandlers(b *bot.Bot, api bot.API, cfg *config.TelegramConfig, manager *state.Manager, deps Deps) error {
	kb := keyboard.NewBuilder()
	sender := handlers.NewMessageSender(api, &cfg.SendRetry)
	downloader := handlers.NewTelegramDownloader(api, deps.Upload.MaxFileSize)

	all := []handlers.Handler{
		handlers.NewCommandHandler(api, sender, manager, kb),
		handlers.NewDocumentHandler(api, sender, manager, kb, downloader, deps.Validator, deps.Upload.MaxFileSize),
		handlers.NewQuestionHandler(api, sender, manager, kb),
		handlers.NewCallbackHandler(api, sender, manager, kb, deps.Formatter),
	}

	for _, h := range all {
		if err := b.RegisterHandler(h); err != nil {
			return fmt.Errorf("register handler: %w", err)
		}
	}
	return nil
}
