package retry

import (
	"context"
	"testing"
	"time"

	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockSleep(t *testing.T) *[]time.Duration {
	originalSleepFunc := sleepFunc

	t.Cleanup(func() {
		sleepFunc = originalSleepFunc
	})

	var recorded []time.Duration

	sleepFunc = func(ctx context.Context, d time.Duration) error {
		recorded = append(recorded, d)
		return ctx.Err()
	}

	return &recorded
}

func failingFn(failures int) (func() (string, error), *int) {
	calls := 0

	return func() (string, error) {
		calls++
		if calls <= failures {
			return "", errors.NewProcessingError("attempt %d failed", calls)
		}

		return "success", nil
	}, &calls
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name           string
		options        []Options
		failures       int
		expectedSleeps []time.Duration
		expectedCalls  int
		expectedError  bool
	}{
		{
			name:          "succeeds on first try",
			options:       []Options{WithRetryCount(3), WithBackoffMultiplier(1), WithBackoffDurationType(time.Millisecond)},
			expectedCalls: 1,
		},
		{
			name:           "fails twice then succeeds",
			options:        []Options{WithRetryCount(3), WithBackoffMultiplier(1), WithBackoffDurationType(time.Millisecond)},
			failures:       2,
			expectedSleeps: []time.Duration{1 * time.Millisecond, 2 * time.Millisecond},
			expectedCalls:  3,
		},
		{
			name:           "fails every attempt",
			options:        []Options{WithRetryCount(3), WithBackoffMultiplier(1), WithBackoffDurationType(time.Millisecond)},
			failures:       10,
			expectedSleeps: []time.Duration{1 * time.Millisecond, 2 * time.Millisecond},
			expectedCalls:  3,
			expectedError:  true,
		},
		{
			name: "exponential backoff is capped",
			options: []Options{WithRetryCount(5), WithExponentialBackoff(), WithBackoffDurationType(10 * time.Millisecond),
				WithBackoffFactor(2.0), WithMaxBackoff(30 * time.Millisecond)},
			failures:       4,
			expectedSleeps: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 30 * time.Millisecond},
			expectedCalls:  5,
		},
		{
			name:           "infinite retry",
			options:        []Options{WithInfiniteRetry(), WithBackoffMultiplier(0), WithBackoffDurationType(time.Millisecond)},
			failures:       6,
			expectedSleeps: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond},
			expectedCalls:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeps := mockSleep(t)
			f, calls := failingFn(tt.failures)

			result, err := Retry(context.Background(), ulogger.TestLogger{}, f, tt.options...)

			if tt.expectedError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrProcessing))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "success", result)
			}

			assert.Equal(t, tt.expectedCalls, *calls)

			assert.Equal(t, tt.expectedSleeps, *sleeps)
		})
	}
}

func TestRetry_ContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f, _ := failingFn(1 << 30)

	_, err := Retry(ctx, ulogger.TestLogger{}, f,
		WithInfiniteRetry(),
		WithExponentialBackoff(),
		WithBackoffDurationType(10*time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestCappedExponentialBackoff(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, CappedExponentialBackoff(100*time.Millisecond, 2.0, time.Second))
	assert.Equal(t, time.Second, CappedExponentialBackoff(600*time.Millisecond, 2.0, time.Second))
	assert.Equal(t, 150*time.Millisecond, CappedExponentialBackoff(100*time.Millisecond, 1.5, time.Second))
}

func TestBackoffAndSleep(t *testing.T) {
	t.Run("backoff calculation", func(t *testing.T) {
		sleeps := mockSleep(t)

		tests := []struct {
			retries    int
			multiplier int
			duration   time.Duration
		}{
			{0, 1, time.Second},
			{1, 2, time.Second},
			{3, 3, time.Second},
			{2, 5, time.Millisecond},
		}

		for _, tc := range tests {
			require.NoError(t, BackoffAndSleep(context.Background(), tc.retries, tc.multiplier, tc.duration))
		}

		assert.Equal(t, []time.Duration{time.Second, 3 * time.Second, 10 * time.Second, 11 * time.Millisecond}, *sleeps)
	})

	t.Run("cancels on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)

		go func() {
			done <- BackoffAndSleep(ctx, 2, 1, 100*time.Millisecond)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.Equal(t, context.Canceled, err)
		case <-time.After(time.Second):
			t.Fatal("BackoffAndSleep did not cancel in time")
		}
	})
}
