package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewLRU[string](4, time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	_, ok := c.Get("k")
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Second)
	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 0, c.Len())
}

func TestLRU_DeletePrefix(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("g1@1", 1)
	c.Set("g1@2", 2)
	c.Set("g2@1", 3)

	assert.Equal(t, 2, c.DeletePrefix("g1@"))
	_, ok := c.Get("g2@1")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestProjections_Load(t *testing.T) {
	p := NewProjections[int](8, time.Minute)
	var fills atomic.Int32
	fill := func() (int, error) {
		fills.Add(1)
		return 42, nil
	}

	v, err := p.Load("g", 1, fill)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = p.Load("g", 1, fill)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(1), fills.Load(), "second load should hit the cache")

	_, err = p.Load("g", 2, fill)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fills.Load(), "new version should refill")

	p.Invalidate("g")
	assert.Equal(t, 0, p.Len())
}

func TestProjections_ErrorsAreNotCached(t *testing.T) {
	p := NewProjections[int](8, time.Minute)
	boom := errors.New("boom")

	_, err := p.Load("g", 1, func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	v, err := p.Load("g", 1, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestProjections_ConcurrentLoads(t *testing.T) {
	p := NewProjections[int](8, time.Minute)
	var fills atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.Load("g", 1, func() (int, error) {
				fills.Add(1)
				<-release
				return 5, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 5, v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, fills.Load(), int32(10))
	assert.GreaterOrEqual(t, fills.Load(), int32(1))
	assert.Equal(t, 1, p.Len())
}

func TestProjections_Disabled(t *testing.T) {
	p := NewProjections[int](0, time.Minute)
	calls := 0
	for i := 0; i < 3; i++ {
		_, err := p.Load("g", 1, func() (int, error) { calls++; return 1, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	p.Invalidate("g")
}
