package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqClock_Monotonic(t *testing.T) {
	c := NewSeqClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestSeqClock_Resume(t *testing.T) {
	c := NewSeqClockAt(41)
	assert.Equal(t, int64(42), c.Next())
}

func TestSeqClock_Concurrent(t *testing.T) {
	c := NewSeqClock()
	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, dup := seen.LoadOrStore(c.Next(), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), c.Current())
}

func TestStreamClock_StartsNearZero(t *testing.T) {
	c := NewStreamClock()
	now := c.NowMs()
	assert.GreaterOrEqual(t, now, int64(0))
	assert.Less(t, now, int64(1000))
	assert.False(t, c.Epoch().IsZero())
}

func TestFixedClock(t *testing.T) {
	c := FixedClock(250)
	assert.Equal(t, int64(250), c.NowMs())
	assert.Equal(t, int64(250), c.NowMs())
}
