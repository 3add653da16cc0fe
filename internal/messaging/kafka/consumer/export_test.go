package consumer

import "time"

// SetRetryBackoff shortens the replica retry backoff for tests.
func SetRetryBackoff(initial, maxBackoff time.Duration) (restore func()) {
	prevInitial, prevMax := retryInitialBackoff, retryMaxBackoff
	retryInitialBackoff, retryMaxBackoff = initial, maxBackoff
	return func() {
		retryInitialBackoff, retryMaxBackoff = prevInitial, prevMax
	}
}
