package bbcode

import (
	"container/list"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// CacheConfig contains configuration options for the document cache
type CacheConfig struct {
	// MaxSize is the maximum number of documents to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached documents. 0 means no expiration.
	TTL time.Duration
}

// DocumentCache keeps parsed documents keyed by the hash of their source so a
// document can be parsed once and rendered many times.
type DocumentCache struct {
	mu      sync.Mutex
	entries map[uint64]*cacheEntry
	lru     *list.List
	config  CacheConfig
	metrics *Metrics
	now     func() time.Time
}

type cacheEntry struct {
	key     uint64
	doc     *Document
	expiry  time.Time
	element *list.Element
}

// NewDocumentCache creates a cache sized from the global configuration
func NewDocumentCache() *DocumentCache {
	config := GetGlobalConfig()
	return NewDocumentCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	}, nil)
}

// NewDocumentCacheWithConfig creates a cache with the given configuration.
// metrics may be nil.
func NewDocumentCacheWithConfig(config CacheConfig, metrics *Metrics) *DocumentCache {
	return &DocumentCache{
		entries: make(map[uint64]*cacheEntry),
		lru:     list.New(),
		config:  config,
		metrics: metrics,
		now:     time.Now,
	}
}

func cacheKey(source string) uint64 {
	return xxhash.Sum64String(source)
}

// Get returns the cached document for source, if present and not expired
func (dc *DocumentCache) Get(source string) (*Document, bool) {
	if dc.config.MaxSize == 0 {
		return nil, false
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, exists := dc.entries[cacheKey(source)]
	if !exists || entry.doc.Source != source {
		dc.metrics.RecordCacheMiss()
		return nil, false
	}

	if dc.config.TTL > 0 && dc.now().After(entry.expiry) {
		dc.removeEntry(entry)
		dc.metrics.RecordCacheMiss()
		return nil, false
	}

	dc.lru.MoveToFront(entry.element)
	dc.metrics.RecordCacheHit()
	return entry.doc, true
}

// Set adds a document to the cache, evicting the least recently used entry
// when full. A different document with a colliding hash is replaced.
func (dc *DocumentCache) Set(doc *Document) {
	if dc.config.MaxSize == 0 || doc == nil {
		return
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	key := cacheKey(doc.Source)
	expiry := time.Time{}
	if dc.config.TTL > 0 {
		expiry = dc.now().Add(dc.config.TTL)
	}

	if existing, exists := dc.entries[key]; exists {
		existing.doc = doc
		existing.expiry = expiry
		dc.lru.MoveToFront(existing.element)
		return
	}

	if dc.lru.Len() >= dc.config.MaxSize {
		if oldest := dc.lru.Back(); oldest != nil {
			dc.removeEntry(oldest.Value.(*cacheEntry))
			dc.metrics.RecordCacheEviction()
			Debug("Evicted cached document (%d entries)", dc.lru.Len())
		}
	}

	entry := &cacheEntry{
		key:    key,
		doc:    doc,
		expiry: expiry,
	}
	entry.element = dc.lru.PushFront(entry)
	dc.entries[key] = entry
	dc.metrics.SetCacheEntries(len(dc.entries))
}

// Remove drops the cached document for source
func (dc *DocumentCache) Remove(source string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if entry, exists := dc.entries[cacheKey(source)]; exists && entry.doc.Source == source {
		dc.removeEntry(entry)
	}
}

func (dc *DocumentCache) removeEntry(entry *cacheEntry) {
	delete(dc.entries, entry.key)
	dc.lru.Remove(entry.element)
	dc.metrics.SetCacheEntries(len(dc.entries))
}

// Clear removes all documents from the cache
func (dc *DocumentCache) Clear() {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.entries = make(map[uint64]*cacheEntry)
	dc.lru = list.New()
	dc.metrics.SetCacheEntries(0)
}

// Size returns the current number of cached documents
func (dc *DocumentCache) Size() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.entries)
}
