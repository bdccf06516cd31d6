package loader

import (
	"container/list"
	"context"
	"sync"
	"time"

	"telepathic-go/packages/telepathic/config"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// CacheConfigFrom copies the cache settings of cfg
func CacheConfigFrom(cfg *config.Config) CacheConfig {
	return CacheConfig{MaxSize: cfg.CacheMaxSize, TTL: cfg.CacheTTL}
}

// TemplateCache keeps loaded template text by name with LRU eviction
type TemplateCache struct {
	mu     sync.RWMutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
	now    func() time.Time
}

type cacheEntry struct {
	key     string
	text    string
	expiry  time.Time
	element *list.Element
}

// NewTemplateCache creates a cache with the given configuration
func NewTemplateCache(cfg CacheConfig) *TemplateCache {
	return &TemplateCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: cfg,
		now:    time.Now,
	}
}

func (tc *TemplateCache) expired(entry *cacheEntry) bool {
	return tc.config.TTL > 0 && tc.now().After(entry.expiry)
}

// Get returns the cached text for key
func (tc *TemplateCache) Get(key string) (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return "", false
	}
	if tc.expired(entry) {
		tc.remove(entry)
		return "", false
	}
	tc.lru.MoveToFront(entry.element)
	return entry.text, true
}

// Set stores text under key, evicting the least recently used entry when full
func (tc *TemplateCache) Set(key, text string) {
	if tc.config.MaxSize <= 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	var expiry time.Time
	if tc.config.TTL > 0 {
		expiry = tc.now().Add(tc.config.TTL)
	}

	if existing, exists := tc.cache[key]; exists {
		existing.text = text
		existing.expiry = expiry
		tc.lru.MoveToFront(existing.element)
		return
	}

	if tc.lru.Len() >= tc.config.MaxSize {
		if oldest := tc.lru.Back(); oldest != nil {
			tc.remove(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{key: key, text: text, expiry: expiry}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

// Remove drops key from the cache
func (tc *TemplateCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.cache[key]; exists {
		tc.remove(entry)
	}
}

func (tc *TemplateCache) remove(entry *cacheEntry) {
	delete(tc.cache, entry.key)
	tc.lru.Remove(entry.element)
}

// Clear removes every entry
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*cacheEntry)
	tc.lru = list.New()
}

// Size returns the current number of cached templates
func (tc *TemplateCache) Size() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.cache)
}

// CachedLoader serves repeated loads from a TemplateCache. Failed loads are
// not cached.
type CachedLoader struct {
	loader Loader
	cache  *TemplateCache
}

// NewCachedLoader wraps loader with cache
func NewCachedLoader(loader Loader, cache *TemplateCache) *CachedLoader {
	return &CachedLoader{loader: loader, cache: cache}
}

// Cache returns the underlying cache
func (l *CachedLoader) Cache() *TemplateCache {
	return l.cache
}

// LoadText implements Loader
func (l *CachedLoader) LoadText(ctx context.Context, name string) (string, error) {
	if text, ok := l.cache.Get(name); ok {
		return text, nil
	}
	text, err := l.loader.LoadText(ctx, name)
	if err != nil {
		return "", err
	}
	l.cache.Set(name, text)
	return text, nil
}
