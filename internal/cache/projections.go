package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/splitledger/internal/metrics"
)

// Projections caches one computed value per (group, version). Concurrent misses
// for the same key share a single fill.
type Projections[T any] struct {
	lru   *LRU[T]
	group singleflight.Group
}

// NewProjections creates a projection cache. A size of zero disables caching.
func NewProjections[T any](size int, ttl time.Duration) *Projections[T] {
	if size <= 0 {
		return &Projections[T]{}
	}
	return &Projections[T]{lru: NewLRU[T](size, ttl)}
}

func key(groupID string, version int64) string {
	return fmt.Sprintf("%s@%d", groupID, version)
}

// Load returns the cached value for groupID at version, calling fill on a miss.
func (p *Projections[T]) Load(groupID string, version int64, fill func() (T, error)) (T, error) {
	if p.lru == nil {
		return fill()
	}

	k := key(groupID, version)
	if v, ok := p.lru.Get(k); ok {
		metrics.ProjectionCache.WithLabelValues("hit").Inc()
		return v, nil
	}

	v, err, shared := p.group.Do(k, func() (any, error) {
		v, err := fill()
		if err != nil {
			return v, err
		}
		p.lru.Set(k, v)
		return v, nil
	})
	if shared {
		metrics.ProjectionCache.WithLabelValues("shared").Inc()
	} else {
		metrics.ProjectionCache.WithLabelValues("miss").Inc()
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every cached version of groupID.
func (p *Projections[T]) Invalidate(groupID string) {
	if p.lru == nil {
		return
	}
	p.lru.DeletePrefix(groupID + "@")
}

// Len returns the number of cached entries.
func (p *Projections[T]) Len() int {
	if p.lru == nil {
		return 0
	}
	return p.lru.Len()
}

// RunJanitor removes expired entries every interval until ctx is done.
func (p *Projections[T]) RunJanitor(ctx context.Context, interval time.Duration) {
	if p.lru == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := p.lru.CleanExpired(); n > 0 {
				slog.Debug("Projection cache cleaned", "removed", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
