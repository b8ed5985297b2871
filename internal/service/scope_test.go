package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeApplyAfterDispose(t *testing.T) {
	s := NewScope(context.Background())
	ran := s.Apply(func() {})
	assert.True(t, ran)

	s.Dispose()
	assert.True(t, s.Disposed())
	assert.Error(t, s.Context().Err())
	assert.False(t, s.Apply(func() { t.Fatal("applied after dispose") }))
}

func TestScopeFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewScope(parent)
	cancel()
	assert.True(t, s.Disposed())
	assert.False(t, s.Apply(func() {}))
}

func TestInFlightPerRow(t *testing.T) {
	f := NewInFlight()
	release, ok := f.Acquire("city", 5)
	require.True(t, ok)

	_, again := f.Acquire("city", 5)
	assert.False(t, again)

	other, ok := f.Acquire("city", 6)
	require.True(t, ok)
	other()

	_, ok = f.Acquire("state", 5)
	assert.True(t, ok, "same id in another resource is independent")

	assert.True(t, f.Pending("city", 5))
	release()
	release()
	assert.False(t, f.Pending("city", 5))
}

func TestInFlightConcurrentAcquire(t *testing.T) {
	f := NewInFlight()
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := f.Acquire("employee", 1); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestDebouncerRunsLastOnly(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var mu sync.Mutex
	var got []string
	for _, q := range []string{"a", "an", "ann"} {
		d.Trigger(func() {
			mu.Lock()
			got = append(got, q)
			mu.Unlock()
		})
		time.Sleep(5 * time.Millisecond)
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ann"}, got)
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var fired int32
	d.Trigger(func() { atomic.StoreInt32(&fired, 1) })
	d.Stop()
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&fired))
}
