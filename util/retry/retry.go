package retry

import (
	"context"
	"time"

	"github.com/bsv-blockchain/utxodump/ulogger"
)

type SetOptions struct {
	RetryCount          int
	BackoffMultiplier   int
	BackoffDurationType time.Duration
	Message             string
	InfiniteRetry       bool
	ExponentialBackoff  bool
	BackoffFactor       float64
	MaxBackoff          time.Duration
}

type Options func(*SetOptions)

func WithRetryCount(retryCount int) Options {
	return func(o *SetOptions) {
		o.RetryCount = retryCount
	}
}

func WithBackoffMultiplier(backoffMultiplier int) Options {
	return func(o *SetOptions) {
		o.BackoffMultiplier = backoffMultiplier
	}
}

func WithBackoffDurationType(durationType time.Duration) Options {
	return func(o *SetOptions) {
		o.BackoffDurationType = durationType
	}
}

func WithMessage(message string) Options {
	return func(o *SetOptions) {
		o.Message = message
	}
}

// WithInfiniteRetry retries until f succeeds or the context is done.
func WithInfiniteRetry() Options {
	return func(o *SetOptions) {
		o.InfiniteRetry = true
	}
}

// WithExponentialBackoff multiplies the wait by BackoffFactor after every
// attempt, up to MaxBackoff, instead of growing it linearly.
func WithExponentialBackoff() Options {
	return func(o *SetOptions) {
		o.ExponentialBackoff = true
	}
}

func WithBackoffFactor(factor float64) Options {
	return func(o *SetOptions) {
		o.BackoffFactor = factor
	}
}

func WithMaxBackoff(maxBackoff time.Duration) Options {
	return func(o *SetOptions) {
		o.MaxBackoff = maxBackoff
	}
}

// Retry calls f until it succeeds, the attempts are used up or ctx is done.
// Between attempts it sleeps (BackoffMultiplier*attempt + 1) * BackoffDurationType,
// or an exponentially growing duration with WithExponentialBackoff.
// The error of the last attempt is returned, or the context error when ctx
// ended the retries.
func Retry[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), opts ...Options) (T, error) {
	o := &SetOptions{
		RetryCount:          3,
		BackoffMultiplier:   2,
		BackoffDurationType: time.Second,
		Message:             "retrying",
		BackoffFactor:       2.0,
		MaxBackoff:          30 * time.Second,
	}

	for _, opt := range opts {
		opt(o)
	}

	var (
		result T
		err    error
	)

	backoff := o.BackoffDurationType

	for i := 0; o.InfiniteRetry || i < o.RetryCount; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = f()
		if err == nil {
			return result, nil
		}

		if !o.InfiniteRetry && i == o.RetryCount-1 {
			break
		}

		logger.Warnf("%s (attempt %d): %v", o.Message, i+1, err)

		if o.ExponentialBackoff {
			if sleepErr := sleepFunc(ctx, backoff); sleepErr != nil {
				return result, sleepErr
			}

			backoff = CappedExponentialBackoff(backoff, o.BackoffFactor, o.MaxBackoff)

			continue
		}

		if sleepErr := BackoffAndSleep(ctx, i, o.BackoffMultiplier, o.BackoffDurationType); sleepErr != nil {
			return result, sleepErr
		}
	}

	return result, err
}
