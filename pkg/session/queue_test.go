package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := newQueue[int]()
	for i := range 5 {
		q.push(i)
	}
	assert.Equal(t, 5, q.size())

	for i := range 5 {
		v, ok := q.pop(0)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.size())
}

func TestQueuePopTimeouts(t *testing.T) {
	t.Run("ZeroReturnsImmediately", func(t *testing.T) {
		q := newQueue[string]()
		start := time.Now()
		_, ok := q.pop(0)
		assert.False(t, ok)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("PositiveExpires", func(t *testing.T) {
		q := newQueue[string]()
		start := time.Now()
		_, ok := q.pop(30 * time.Millisecond)
		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("PositiveWakesOnPush", func(t *testing.T) {
		q := newQueue[string]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			q.push("x")
		}()
		v, ok := q.pop(5 * time.Second)
		assert.True(t, ok)
		assert.Equal(t, "x", v)
	})

	t.Run("NegativeBlocksUntilPush", func(t *testing.T) {
		q := newQueue[string]()
		got := make(chan string, 1)
		go func() {
			v, _ := q.pop(-1)
			got <- v
		}()

		select {
		case <-got:
			t.Fatal("pop returned before push")
		case <-time.After(30 * time.Millisecond):
		}

		q.push("late")
		select {
		case v := <-got:
			assert.Equal(t, "late", v)
		case <-time.After(5 * time.Second):
			t.Fatal("pop did not wake")
		}
	})
}

func TestQueueCloseWakesConsumers(t *testing.T) {
	q := newQueue[int]()
	q.push(1)

	var wg sync.WaitGroup
	results := make(chan bool, 3)
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.pop(-1)
			results <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.close()
	q.close()
	wg.Wait()
	close(results)

	var delivered int
	for ok := range results {
		if ok {
			delivered++
		}
	}
	assert.Equal(t, 1, delivered)

	q.push(2)
	assert.Equal(t, 0, q.size(), "push after close is dropped")
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := newQueue[int]()
	const producers, each = 4, 100

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range each {
				q.push(p*each + i)
			}
		}()
	}

	seen := make(map[int]bool)
	for len(seen) < producers*each {
		v, ok := q.pop(5 * time.Second)
		require.True(t, ok)
		seen[v] = true
	}
	wg.Wait()
	assert.Equal(t, 0, q.size())
}
