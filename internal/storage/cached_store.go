package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// BlobStore is an attachment blob backend.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// CacheObserver is told about every lookup and eviction of a CachedStore.
type CacheObserver interface {
	CacheLookup(hit bool)
	CacheEviction()
}

// CacheStats is a snapshot of the cache counters.
type CacheStats struct {
	Objects   int     `json:"objects"`
	SizeBytes int64   `json:"sizeBytes"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hitRate"`
}

type cacheEntry struct {
	data        []byte
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int64
}

// CachedStore keeps recently read blobs in memory in front of a backend.
// The cache is bounded in bytes and evicts the least recently used blob
// first. Blobs larger than a quarter of the budget are never cached.
// Writes and removals go straight to the backend and drop the cached copy.
type CachedStore struct {
	backend  BlobStore
	maxSize  int64
	maxEntry int64
	ttl      time.Duration
	observer CacheObserver
	logger   *slog.Logger

	mu          sync.Mutex
	entries     map[string]*cacheEntry
	currentSize int64
	hits        int64
	misses      int64
}

// NewCachedStore wraps backend with a cache of maxSizeBytes. Entries older
// than ttl are refetched. observer may be nil.
func NewCachedStore(backend BlobStore, maxSizeBytes int64, ttl time.Duration, observer CacheObserver, logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{
		backend:  backend,
		maxSize:  maxSizeBytes,
		maxEntry: maxSizeBytes / 4,
		ttl:      ttl,
		observer: observer,
		logger:   logger.With("module", "attachment_cache"),
		entries:  make(map[string]*cacheEntry),
	}
}

func (s *CachedStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error) {
	s.invalidate(key)
	return s.backend.Put(ctx, key, r, size, contentType)
}

func (s *CachedStore) Remove(ctx context.Context, key string) error {
	s.invalidate(key)
	return s.backend.Remove(ctx, key)
}

// Get serves key from memory when possible and otherwise reads it from the
// backend, caching it when it fits.
func (s *CachedStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if data, ok := s.lookup(key, time.Now()); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	rc, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	head, err := io.ReadAll(io.LimitReader(rc, s.maxEntry+1))
	if err != nil {
		rc.Close()
		return nil, err
	}
	if int64(len(head)) > s.maxEntry {
		return struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(head), rc), rc}, nil
	}
	rc.Close()
	s.store(key, head, time.Now())
	return io.NopCloser(bytes.NewReader(head)), nil
}

// Stats returns the current counters.
func (s *CachedStore) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := CacheStats{
		Objects:   len(s.entries),
		SizeBytes: s.currentSize,
		Hits:      s.hits,
		Misses:    s.misses,
	}
	if total := s.hits + s.misses; total > 0 {
		stats.HitRate = float64(s.hits) / float64(total) * 100
	}
	return stats
}

func (s *CachedStore) lookup(key string, now time.Time) ([]byte, bool) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && s.ttl > 0 && now.Sub(e.createdAt) > s.ttl {
		s.dropLocked(key, e)
		ok = false
	}
	if ok {
		e.lastAccess = now
		e.accessCount++
		s.hits++
	} else {
		s.misses++
	}
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.CacheLookup(ok)
	}
	if !ok {
		return nil, false
	}
	return e.data, true
}

func (s *CachedStore) store(key string, data []byte, now time.Time) {
	size := int64(len(data))
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.dropLocked(key, old)
	}
	for s.currentSize+size > s.maxSize {
		if !s.evictLRULocked() {
			return
		}
	}
	s.entries[key] = &cacheEntry{data: data, createdAt: now, lastAccess: now}
	s.currentSize += size
	s.logger.Debug("blob cached", "key", key, "bytes", size)
}

func (s *CachedStore) invalidate(key string) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		s.dropLocked(key, e)
	}
	s.mu.Unlock()
}

func (s *CachedStore) dropLocked(key string, e *cacheEntry) {
	delete(s.entries, key)
	s.currentSize -= int64(len(e.data))
}

func (s *CachedStore) evictLRULocked() bool {
	var (
		oldestKey string
		oldest    *cacheEntry
	)
	for k, e := range s.entries {
		if oldest == nil || e.lastAccess.Before(oldest.lastAccess) {
			oldestKey, oldest = k, e
		}
	}
	if oldest == nil {
		return false
	}
	s.dropLocked(oldestKey, oldest)
	if s.observer != nil {
		s.observer.CacheEviction()
	}
	s.logger.Debug("blob evicted", "key", oldestKey, "accesses", oldest.accessCount)
	return true
}
