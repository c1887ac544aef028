package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedDelayRetryer(t *testing.T) {
	t.Run("bounded attempts", func(t *testing.T) {
		retryer := NewFixedDelayRetryer(100*time.Millisecond, 3)

		for attempt := 0; attempt < 3; attempt++ {
			delay, retry := retryer.NextDelay(attempt, nil)
			assert.True(t, retry)
			assert.Equal(t, 100*time.Millisecond, delay)
		}

		_, retry := retryer.NextDelay(3, nil)
		assert.False(t, retry)
	})

	t.Run("zero max retries means infinite", func(t *testing.T) {
		retryer := NewFixedDelayRetryer(time.Second, 0)

		_, retry := retryer.NextDelay(1000, nil)
		assert.True(t, retry)
	})
}
