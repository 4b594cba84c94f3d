package sync

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	retryAttempts = 2
	retryDelay    = 2 * time.Second
)

// retryRead retries an idempotent remote read a bounded number of times.
// Creates and writes never go through here: a failed create must not be
// replayed without re-checking existence first, so writes rely on the
// idempotency lookup of the next run instead.
func retryRead[T any](op string, fn func() (T, error)) (T, error) {
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), retryAttempts)
	v, err := backoff.RetryWithData(fn, policy)
	if err != nil {
		return v, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}
