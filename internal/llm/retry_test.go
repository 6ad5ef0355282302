package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

var fastRetry = RetryConfig{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 2}

func TestRetryDo_SucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	got, err := retryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryDo_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	_, err := retryDo(context.Background(), fastRetry, func() (int, error) {
		calls++
		return 0, &googleapi.Error{Code: http.StatusTooManyRequests}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var apiErr *googleapi.Error
	assert.True(t, errors.As(err, &apiErr))
}

func TestRetryDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := retryDo(context.Background(), fastRetry, func() (int, error) {
		calls++
		return 0, &googleapi.Error{Code: http.StatusBadRequest}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retryDo(ctx, fastRetry, func() (int, error) {
		calls++
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestBackoff(t *testing.T) {
	rc := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, backoff(rc, 0))
	assert.Equal(t, 200*time.Millisecond, backoff(rc, 1))
	assert.Equal(t, 300*time.Millisecond, backoff(rc, 2))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&googleapi.Error{Code: 500}))
	assert.True(t, isRetryable(&googleapi.Error{Code: 504}))
	assert.False(t, isRetryable(&googleapi.Error{Code: 403}))
	assert.False(t, isRetryable(errors.New("boom")))
}
