package publish

import (
	"context"
	"time"

	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/logging"
)

// RetryPolicy is a bounded retry with exponential backoff for the network
// calls of the publish stage. It is an explicit object so it can be
// exercised with a failing transport double.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the standard policy for push and PR calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.MaxRetries,
		BaseDelay:   constants.RetryBaseDelay,
	}
}

// Do runs fn until it succeeds or the attempts are exhausted, backing off
// exponentially between attempts (capped at MaxRetryDelay). Context
// cancellation stops the loop early. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		logging.Ctx(ctx).Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Retrying after failure")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > constants.MaxRetryDelay {
			delay = constants.MaxRetryDelay
		}
	}

	return err
}
