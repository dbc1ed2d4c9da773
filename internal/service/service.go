// Package service exposes the ledger engine over storage: a Go API on
// LedgerService and Connect handlers on Handler.
package service

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitledger/internal/cache"
	"github.com/mmynk/splitledger/internal/storage"
)

// LedgerService reads and appends group facts and serves their projections.
//
// Writes to one group are serialized; reads of a group wait for an in-flight
// write to that group so they never observe half of a settlement. Different
// groups proceed in parallel.
type LedgerService struct {
	store       storage.Store
	validate    *validator.Validate
	locks       *groupLocks
	projections *cache.Projections[*Snapshot]
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithProjectionCache caches up to size group snapshots for ttl. A size of zero
// disables the cache.
func WithProjectionCache(size int, ttl time.Duration) Option {
	return func(s *LedgerService) {
		s.projections = cache.NewProjections[*Snapshot](size, ttl)
	}
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:       store,
		validate:    newValidator(),
		locks:       &groupLocks{},
		projections: cache.NewProjections[*Snapshot](0, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Projections exposes the snapshot cache so callers can run its janitor.
func (s *LedgerService) Projections() *cache.Projections[*Snapshot] {
	return s.projections
}

// groupLocks hands out one RWMutex per group ID.
type groupLocks struct {
	m sync.Map // group ID -> *sync.RWMutex
}

func (l *groupLocks) get(groupID string) *sync.RWMutex {
	mu, _ := l.m.LoadOrStore(groupID, &sync.RWMutex{})
	return mu.(*sync.RWMutex)
}

func (l *groupLocks) lock(groupID string) func() {
	mu := l.get(groupID)
	mu.Lock()
	return mu.Unlock
}

func (l *groupLocks) rlock(groupID string) func() {
	mu := l.get(groupID)
	mu.RLock()
	return mu.RUnlock
}
