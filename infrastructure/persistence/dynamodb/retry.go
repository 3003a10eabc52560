package dynamodb

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// RetryConfig defines retry behavior for transient store faults.
type RetryConfig struct {
	MaxAttempts   int           // Maximum number of attempts
	BaseDelay     time.Duration // Base delay between retries
	MaxDelay      time.Duration // Maximum delay between retries
	BackoffFactor float64       // Exponential backoff multiplier
	JitterFactor  float64       // Jitter factor to prevent thundering herd
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

// isRetryable reports whether an error is a transient fault worth retrying.
// Condition failures and cancellations are deliberate outcomes and never
// retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var (
		throughput *types.ProvisionedThroughputExceededException
		reqLimit   *types.RequestLimitExceeded
		internal   *types.InternalServerError
		limit      *types.LimitExceededException
	)
	if errors.As(err, &throughput) || errors.As(err, &reqLimit) ||
		errors.As(err, &internal) || errors.As(err, &limit) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "Throttling", "ServiceUnavailable", "RequestTimeout":
			return true
		}
	}

	return false
}

// retryWithBackoff executes an operation with exponential backoff on
// transient faults, honoring context cancellation between attempts.
func retryWithBackoff(ctx context.Context, config RetryConfig, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if attempt == config.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(config.calculateDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// calculateDelay calculates the delay for the given attempt number
func (c RetryConfig) calculateDelay(attempt int) time.Duration {
	backoff := float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt))

	jitter := backoff * c.JitterFactor * (rand.Float64() - 0.5) * 2
	delay := time.Duration(backoff + jitter)

	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	return delay
}
