// Package backoff wraps network operations with retry and exponential delay.
//
// Callers must only wrap reads or server-enforced-idempotent writes: the
// wrapper retries blindly and does not itself guarantee idempotence.
package backoff

import (
	"context"
	"math"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 500 * time.Millisecond
)

// Options controls the retry policy. The zero value gives the defaults.
type Options struct {
	// MaxRetries bounds the total number of attempts.
	MaxRetries int

	// BaseDelay is the delay before the first retry; each subsequent retry
	// multiplies it by 1.5, with +-10% jitter.
	BaseDelay time.Duration

	// Permanent classifies errors that must never be retried, e.g. malformed
	// input. A nil classifier treats every error as transient.
	Permanent func(error) bool
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	return o
}

// Retry invokes op, retrying transient failures up to MaxRetries attempts.
// Permanent failures and context cancellation abort immediately; exhausting
// the attempts returns the last error.
func Retry(ctx context.Context, op func(ctx context.Context) error, opts Options) error {
	opts = opts.withDefaults()

	var attempt int
	for {
		err := op(ctx)
		if err == nil {
			return nil
		}

		attempt++
		if attempt >= opts.MaxRetries {
			return err
		}

		if opts.Permanent != nil && opts.Permanent(err) {
			return err
		}

		delay := delayFor(opts.BaseDelay, attempt)

		log.WithError(err).WithFields(log.Fields{
			"attempt": attempt,
			"max":     opts.MaxRetries,
			"delay":   delay,
		}).Debug("retrying request")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func delayFor(base time.Duration, attempt int) time.Duration {
	jitter := 0.9 + rand.Float64()*0.2
	return time.Duration(float64(base) * math.Pow(1.5, float64(attempt)) * jitter)
}
