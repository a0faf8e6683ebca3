package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	storedAt  time.Time
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is a process-local CacheRepository. A zero ttl never expires.
// Expired entries are swept at most once per sweepInterval on Set, and the
// oldest entry is evicted when the cache is full.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithLimit(DefaultCacheMaxEntries)
}

// NewMemoryCacheWithLimit caps the cache at maxEntries (DefaultCacheMaxEntries when <= 0).
func NewMemoryCacheWithLimit(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	now := m.now()

	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}
	if entry.expired(now) {
		m.deleteIfExpired(key, now)
		return "", false
	}
	return entry.value, true
}

// deleteIfExpired re-checks the entry under the write lock: a concurrent Set
// may have stored a fresh value since Get released the read lock.
func (m *MemoryCache) deleteIfExpired(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.data[key]; ok && current.expired(now) {
		delete(m.data, key)
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	now := m.now()
	entry := memoryEntry{value: value, storedAt: now}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !now.Before(m.nextSweep) {
		m.sweepLocked(now)
		m.nextSweep = now.Add(cacheSweepInterval)
	}
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.sweepLocked(now)
		if len(m.data) >= m.maxEntries {
			m.evictOldestLocked()
		}
	}

	m.data[key] = entry
	return nil
}

func (m *MemoryCache) sweepLocked(now time.Time) {
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
		}
	}
}

func (m *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, entry := range m.data {
		if !found || entry.storedAt.Before(oldest) {
			oldestKey, oldest, found = key, entry.storedAt, true
		}
	}
	if found {
		delete(m.data, oldestKey)
	}
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCache) Close() error {
	return nil
}
