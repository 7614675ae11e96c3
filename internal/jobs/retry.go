package jobs

import "time"

// maxEmailRetries caps the retry budget for alert and digest emails.
// Verification emails are never retried.
const maxEmailRetries = 3

// RetryDelay implements the exponential backoff schedule for email
// delivery: 60s, 120s, 240s for the first three retries.
func RetryDelay(retried int) time.Duration {
	return 60 * time.Second * (1 << retried)
}
