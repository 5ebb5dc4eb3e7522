package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3" validate:"min=1,max=10"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

// Do runs fn with the configured policy, stopping early when ctx is done.
func (rc *RetryConfig) Do(ctx context.Context, fn func() error, onRetry func(attempt uint, err error)) error {
	opts := append(rc.ToRetryOptions(), retry.Context(ctx))
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}
	return retry.Do(fn, opts...)
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
