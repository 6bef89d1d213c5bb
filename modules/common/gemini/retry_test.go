package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("googleapi: Error 429: Resource has been exhausted")))
	assert.True(t, IsRetryable(errors.New("rate limit exceeded")))
	assert.True(t, IsRetryable(errors.New("Quota exceeded for requests")))
	assert.True(t, IsRetryable(errors.New("the model is busy")))
	assert.True(t, IsRetryable(&TransientBackendError{Err: errors.New("503")}))
	assert.False(t, IsRetryable(errors.New("invalid argument: bad image")))
	assert.False(t, IsRetryable(errors.New("permission denied")))
}

func TestWithRetrySucceedsAfterTransientErrors(t *testing.T) {
	attempts := 0
	var retryCalls []int

	opts := RetryOptions{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		OnRetry: func(attempt int, delay time.Duration) {
			retryCalls = append(retryCalls, attempt)
		},
	}

	err := WithRetry(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("429 too many requests")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retryCalls)
}

func TestWithRetryStopsOnFatalError(t *testing.T) {
	attempts := 0
	fatal := errors.New("invalid argument")

	err := WithRetry(context.Background(), RetryOptions{MaxAttempts: 5, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return fatal
	})
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), RetryOptions{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("quota exceeded (attempt %d)", attempts)
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "all 3 attempts failed")
}

func TestWithRetryRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithRetry(ctx, RetryOptions{MaxAttempts: 5, BaseDelay: time.Hour}, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("429")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
