package ultradns

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
)

// PollConfig bounds waiting for background tasks, locations and reports.
type PollConfig struct {
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	// MaxTries limits the number of status requests. Zero means no limit.
	MaxTries uint
	// MaxElapsed limits the total wait.
	MaxElapsed time.Duration
}

// DefaultPollConfig is used for zero fields of PollConfig.
var DefaultPollConfig = PollConfig{
	InitialInterval: time.Second,
	Multiplier:      1.5,
	MaxInterval:     15 * time.Second,
	MaxElapsed:      10 * time.Minute,
}

func (c PollConfig) withDefaults() PollConfig {
	if c.InitialInterval <= 0 {
		c.InitialInterval = DefaultPollConfig.InitialInterval
	}

	if c.Multiplier < 1 {
		c.Multiplier = DefaultPollConfig.Multiplier
	}

	if c.MaxInterval <= 0 {
		c.MaxInterval = DefaultPollConfig.MaxInterval
	}

	if c.MaxElapsed <= 0 {
		c.MaxElapsed = DefaultPollConfig.MaxElapsed
	}

	return c
}

func (c PollConfig) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.Multiplier = c.Multiplier
	b.MaxInterval = c.MaxInterval
	return b
}

var errPending = errors.New("pending")

// poll calls check until it reports done, fails or the budget runs out.
func poll[T any](ctx context.Context, cfg PollConfig, check func(ctx context.Context) (T, bool, error)) (T, error) {
	value, err := backoff.Retry[T](ctx,
		func() (T, error) {
			value, done, err := check(ctx)
			switch {
			case err != nil:
				return value, backoff.Permanent(err)
			case !done:
				return value, errPending
			default:
				return value, nil
			}
		},
		backoff.WithBackOff(cfg.backOff()),
		backoff.WithMaxTries(cfg.MaxTries),
		backoff.WithMaxElapsedTime(cfg.MaxElapsed),
	)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}

	if errors.Is(err, errPending) {
		return value, ErrPollTimeout
	}

	return value, err
}
