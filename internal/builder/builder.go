package builder

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/integration/qa"
	"github.com/futig/docqa-client/internal/pkg/formatter"
	"github.com/futig/docqa-client/internal/pkg/logger"
	"github.com/futig/docqa-client/internal/pkg/validator"
	"github.com/futig/docqa-client/internal/render"
	"github.com/futig/docqa-client/internal/session"
	"github.com/futig/docqa-client/internal/stubbackend"
	"github.com/futig/docqa-client/internal/telegram"
	"github.com/futig/docqa-client/internal/telegram/state"
	"github.com/futig/docqa-client/internal/terminal"
	"go.uber.org/zap"
)

// ChatOptions tune the terminal front end
type ChatOptions struct {
	Out     io.Writer
	NoColor bool
}

// BuildChat wires the terminal client. Logs go to LOG_FILE only, stderr is
// left to the conversation.
func BuildChat(environment string, opts ChatOptions) (*terminal.Client, *zap.Logger, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile, false)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("building chat client",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendCfg.Url),
	)

	var termOpts []render.TerminalOption
	if opts.NoColor {
		termOpts = append(termOpts, render.WithoutColor())
	}

	client := terminal.NewClient(
		newBackend(cfg, log),
		validator.NewFileValidator(cfg.UploadCfg),
		formatter.NewFactory(),
		render.NewTerminal(opts.Out, termOpts...),
		cfg.UploadCfg,
	)

	return client, log, nil
}

// BuildTelegramBot wires the Telegram front end
func BuildTelegramBot(environment string) (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile, true)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("building telegram bot",
		zap.String("environment", cfg.Environment),
		zap.Duration("session_ttl", cfg.TelegramCfg.SessionTTL),
	)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, telegram.Deps{
		Backend:   newBackend(cfg, log),
		Storage:   state.NewMemoryStorage(cfg.TelegramCfg.SessionTTL),
		Validator: validator.NewFileValidator(cfg.UploadCfg),
		Formatter: formatter.NewFactory(),
		Upload:    cfg.UploadCfg,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	return bot, log, nil
}

// BuildStubBackend wires an in-process QA backend for local runs
func BuildStubBackend(environment, addr, logLevel string) (*App, error) {
	endpoints, err := config.LoadEndpoints(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logLevel, "", true)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           stubbackend.New().Router(endpoints, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{server: server, logger: log}, nil
}

func newBackend(cfg *config.Config, log *zap.Logger) session.Backend {
	if cfg.EnableMocks {
		log.Info("using mock QA backend")
		return qa.NewMockConnector()
	}

	log.Info("using QA backend", zap.String("url", cfg.BackendCfg.Url))
	return qa.NewConnector(cfg.BackendCfg)
}
