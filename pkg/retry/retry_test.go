package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBusy = errors.New("busy")

func isBusy(err error) bool { return errors.Is(err, errBusy) }

func TestPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var retried []int
	p := Policy{MaxAttempts: 3, Backoff: time.Millisecond, OnRetry: func(attempt int, _ error) {
		retried = append(retried, attempt)
	}}

	err := p.Do(context.Background(), isBusy, func() error {
		calls++
		if calls < 3 {
			return errBusy
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestPolicy_StopsAtMaxAttempts(t *testing.T) {
	calls := 0
	err := Policy{MaxAttempts: 3}.Do(context.Background(), isBusy, func() error {
		calls++
		return errBusy
	})

	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 3, calls)
}

func TestPolicy_DoesNotRetryPermanentErrors(t *testing.T) {
	permanent := errors.New("validation")
	calls := 0
	err := Default.Do(context.Background(), isBusy, func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestPolicy_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Policy{MaxAttempts: 5, Backoff: time.Hour}.Do(ctx, isBusy, func() error {
		calls++
		return errBusy
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicy_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Policy{}.Do(context.Background(), isBusy, func() error {
		calls++
		return errBusy
	})
	assert.Equal(t, 1, calls)
}

func TestPolicy_NilRetryableStopsAfterFirstError(t *testing.T) {
	calls := 0
	var retried []int
	err := Policy{MaxAttempts: 4, OnRetry: func(attempt int, _ error) {
		retried = append(retried, attempt)
	}}.Do(context.Background(), nil, func() error {
		calls++
		return errBusy
	})

	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 1, calls)
	assert.Empty(t, retried)
}
