package builder

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App serves the stub QA backend over HTTP
type App struct {
	server *http.Server
	logger *zap.Logger
}

// Run serves until ctx is done, then shuts the server down gracefully
func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		a.logger.Error("server error", zap.Error(err))
		return err
	case <-ctx.Done():
		a.logger.Info("shutdown requested")
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("server stopped gracefully")
	return nil
}
