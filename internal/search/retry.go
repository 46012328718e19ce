package search

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// retryAttempts is how many additional tries follow a rate-limited
	// attempt before giving up.
	retryAttempts = 3
	// retryBaseDelay is the first backoff delay; it doubles per retry.
	retryBaseDelay = time.Second
)

// retrier runs one backend attempt under the shared backoff policy: 429 and
// 503 responses are retried up to retryAttempts more times with delays of
// base, 2*base, 4*base. Anything else fails immediately. The zero value uses
// the production attempt count and delay.
type retrier struct {
	attempts int
	base     time.Duration
	// sleep is swapped in tests to observe delays without waiting.
	sleep func(context.Context, time.Duration) error
}

func (r retrier) run(ctx context.Context, provider string, attempt func(ctx context.Context) ([]Result, error)) ([]Result, error) {
	attempts := r.attempts
	if attempts <= 0 {
		attempts = retryAttempts
	}
	base := r.base
	if base <= 0 {
		base = retryBaseDelay
	}
	pause := r.sleep
	if pause == nil {
		pause = sleepCtx
	}
	for i := 0; ; i++ {
		res, err := attempt(ctx)
		if err == nil {
			return res, nil
		}
		var se *Error
		if !errors.As(err, &se) || se.Kind != KindRateLimited {
			return nil, err
		}
		if i >= attempts {
			return nil, &Error{Provider: provider, Kind: KindRetryExhausted, Status: se.Status, Message: se.Message, Err: se}
		}
		delay := base * time.Duration(1<<i)
		log.Warn().
			Str("provider", provider).
			Int("status", se.Status).
			Dur("backoff", delay).
			Msg("rate limited; backing off")
		if serr := pause(ctx, delay); serr != nil {
			return nil, &Error{Provider: provider, Kind: KindBackend, Message: "canceled during backoff", Err: serr}
		}
	}
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
