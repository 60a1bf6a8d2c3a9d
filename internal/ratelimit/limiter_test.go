package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Admit(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("admits up to limit within window", func(t *testing.T) {
		l := New(time.Minute, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, l.Admit("10.0.0.1", base.Add(time.Duration(i)*time.Second)), "request %d should be admitted", i+1)
		}
		assert.False(t, l.Admit("10.0.0.1", base.Add(10*time.Second)), "6th request in window should be denied")
	})

	t.Run("admission resumes after window elapses", func(t *testing.T) {
		l := New(time.Minute, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, l.Admit("10.0.0.1", base))
		}
		assert.False(t, l.Admit("10.0.0.1", base.Add(59*time.Second)))
		assert.True(t, l.Admit("10.0.0.1", base.Add(61*time.Second)))
	})

	t.Run("denied requests do not extend the window", func(t *testing.T) {
		l := New(time.Minute, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, l.Admit("10.0.0.1", base))
		}
		// Hammering while denied must not push recovery further out.
		for i := 0; i < 20; i++ {
			assert.False(t, l.Admit("10.0.0.1", base.Add(time.Duration(i)*time.Second)))
		}
		assert.True(t, l.Admit("10.0.0.1", base.Add(61*time.Second)))
	})

	t.Run("callers are limited independently", func(t *testing.T) {
		l := New(time.Minute, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, l.Admit("10.0.0.1", base))
		}
		assert.False(t, l.Admit("10.0.0.1", base))
		assert.True(t, l.Admit("10.0.0.2", base), "a different caller should not be affected")
	})

	t.Run("sliding window admits as old hits expire", func(t *testing.T) {
		l := New(time.Minute, 2)

		assert.True(t, l.Admit("k", base))
		assert.True(t, l.Admit("k", base.Add(30*time.Second)))
		assert.False(t, l.Admit("k", base.Add(45*time.Second)))
		// First hit falls out of the window; one slot opens.
		assert.True(t, l.Admit("k", base.Add(70*time.Second)))
		assert.False(t, l.Admit("k", base.Add(75*time.Second)))
	})

	t.Run("concurrent admits never exceed the limit", func(t *testing.T) {
		l := New(time.Minute, 5)

		var wg sync.WaitGroup
		var mu sync.Mutex
		admitted := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if l.Admit("shared", base) {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, admitted)
	})
}

func TestLimiter_PruneReleasesIdleKeys(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(time.Minute, 5)

	for i := 0; i < 100; i++ {
		l.Admit(fmt.Sprintf("caller-%d", i), base)
	}
	l.mu.Lock()
	for key := range l.hits {
		l.prune(key, base.Add(2*time.Minute))
	}
	remaining := len(l.hits)
	l.mu.Unlock()

	assert.Zero(t, remaining, "expired callers should be evicted")
}
