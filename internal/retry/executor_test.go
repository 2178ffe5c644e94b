package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alwaysTransient treats every error as retryable.
type alwaysTransient struct{}

func (alwaysTransient) IsTransient(err error) bool { return err != nil }

// neverTransient treats every error as permanent.
type neverTransient struct{}

func (neverTransient) IsTransient(error) bool { return false }

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts,
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(time.Millisecond),
		WithJitter(0))
}

func TestExecute_SuccessFirstTry(t *testing.T) {
	calls := 0
	err := NewExecutor(alwaysTransient{}, fastBackoff(3)).
		Execute(context.Background(), func(context.Context) error {
			calls++
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecute_RetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := NewExecutor(alwaysTransient{}, fastBackoff(5)).
		Execute(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_PermanentFailsImmediately(t *testing.T) {
	calls := 0
	permanent := errors.New("unique violation")
	err := NewExecutor(neverTransient{}, fastBackoff(5)).
		Execute(context.Background(), func(context.Context) error {
			calls++
			return permanent
		})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestExecute_ExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("still down")
	err := NewExecutor(alwaysTransient{}, fastBackoff(3)).
		Execute(context.Background(), func(context.Context) error {
			calls++
			return boom
		})
	assert.ErrorIs(t, err, boom)
	// initial attempt plus three retries
	assert.Equal(t, 4, calls)
}

func TestExecute_ContextCancellationStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := NewExecutor(alwaysTransient{}, fastBackoff(100)).
		Execute(ctx, func(context.Context) error {
			calls++
			cancel()
			return errors.New("transient")
		})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExecute_OnRetryCallback(t *testing.T) {
	var attempts []int
	executor := NewExecutor(alwaysTransient{}, fastBackoff(2)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		})

	_ = executor.Execute(context.Background(), func(context.Context) error {
		return errors.New("transient")
	})
	assert.Equal(t, []int{0, 1}, attempts)
}

func TestExecute_WithOnRetryDoesNotMutateReceiver(t *testing.T) {
	base := NewExecutor(alwaysTransient{}, fastBackoff(1))
	derived := base.WithOnRetry(func(int, error, time.Duration) {})
	assert.NotSame(t, base, derived)
	assert.Nil(t, base.onRetry)
}

func TestNewExecutor_NilDependencies(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(alwaysTransient{}, nil) })
}
