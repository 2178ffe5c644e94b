package dfmload

import "time"

// ErrorClassifier determines whether an error is transient and worth
// retrying. Only connection establishment is retried; statement execution
// failures always abort the run.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy calculates delays between retry attempts.
type BackoffStrategy interface {
	// NextDelay returns the delay before retry attempt number attempt
	// (0-based).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the maximum number of retry attempts.
	// Negative means unlimited.
	MaxAttempts() int
}
