package retry

import (
	"context"
	"errors"
	"time"

	"github.com/mealhub/api/internal/domain"
)

const backoff = 100 * time.Millisecond

// Once runs fn and retries it a single time, after a short backoff, when it
// fails with domain.ErrStoreUnavailable. Every other error is terminal.
func Once(ctx context.Context, fn func() error) error {
	err := fn()
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return err
	}
	return fn()
}
