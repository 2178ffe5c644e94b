package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// midpoint makes jitter a no-op: (0.5 - 0.5) * 2 = 0.
func midpoint() float64 { return 0.5 }

func TestExponentialBackoff_Doubling(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithJitterFunc(midpoint))

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 800*time.Millisecond, b.NextDelay(3))
}

func TestExponentialBackoff_CapsAtMaxDelay(t *testing.T) {
	b := NewExponentialBackoff(20,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithJitterFunc(midpoint))

	assert.Equal(t, time.Second, b.NextDelay(10))
	assert.Equal(t, time.Second, b.NextDelay(19))
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	b := NewExponentialBackoff(3,
		WithInitialDelay(1000*time.Millisecond),
		WithJitter(0.1))

	for i := 0; i < 100; i++ {
		delay := b.NextDelay(0)
		assert.GreaterOrEqual(t, delay, 900*time.Millisecond)
		assert.LessOrEqual(t, delay, 1100*time.Millisecond)
	}
}

func TestExponentialBackoff_ZeroJitterIsDeterministic(t *testing.T) {
	b := NewExponentialBackoff(3,
		WithInitialDelay(250*time.Millisecond),
		WithJitter(0))

	assert.Equal(t, 250*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, b.NextDelay(1), b.NextDelay(1))
}

func TestExponentialBackoff_MaxAttempts(t *testing.T) {
	assert.Equal(t, 3, NewExponentialBackoff(3).MaxAttempts())
	assert.Equal(t, -1, NewExponentialBackoff(-1).MaxAttempts())
}
