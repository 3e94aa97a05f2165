package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
	"github.com/Shivanand-hulikatti/conference-booking/internal/telemetry"
)

// RetryPolicy bounds the optimistic retry loop of RunInTransaction.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the configuration defaults.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   10 * time.Millisecond,
	MaxDelay:    250 * time.Millisecond,
}

func (p RetryPolicy) backOff() backoff.BackOff {
	if p.BaseDelay <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
	}
	return b
}

// RunInTransaction runs fn as a transaction against runner. Attempts that
// lose an optimistic race (repository.ErrTxConflict) are retried with
// exponential backoff up to policy.MaxAttempts; once the budget is spent the
// call fails with model.ErrTransient. Any other error from fn or the commit
// is returned unchanged on the first occurrence.
//
// fn may run several times and must not keep state between attempts.
func RunInTransaction(ctx context.Context, runner repository.TxRunner, policy RetryPolicy, fn func(tx repository.Tx) error) error {
	maxAttempts := max(policy.MaxAttempts, 1)

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := runner.RunInTx(ctx, fn)
		switch {
		case err == nil:
			return struct{}{}, nil
		case errors.Is(err, repository.ErrTxConflict):
			telemetry.TxConflictsTotal.Inc()
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	},
		backoff.WithBackOff(policy.backOff()),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Debug("retrying transaction", "attempt", attempts, "next_in", next, "error", err)
		}),
	)
	telemetry.TxAttempts.Observe(float64(attempts))

	if errors.Is(err, repository.ErrTxConflict) {
		return fmt.Errorf("%w: transaction still conflicting after %d attempts", model.ErrTransient, attempts)
	}
	return err
}
