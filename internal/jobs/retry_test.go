package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelaySchedule(t *testing.T) {
	assert.Equal(t, 60*time.Second, RetryDelay(0))
	assert.Equal(t, 120*time.Second, RetryDelay(1))
	assert.Equal(t, 240*time.Second, RetryDelay(2))
}

func TestMaxEmailRetries(t *testing.T) {
	// Three retries on top of the initial attempt; the fourth failure is
	// terminal.
	assert.Equal(t, 3, maxEmailRetries)
}
