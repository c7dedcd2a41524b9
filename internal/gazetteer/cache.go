package gazetteer

import (
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Size and TTL bounds for the in-process place/word caches.
const (
	PlaceCacheMaxSize = 50000
	WordCacheMaxSize  = 50000
	CacheTTL          = 3600 * time.Second
)

// ttlLRU fronts a size- and time-bounded hashicorp/golang-lru expirable.LRU
// with a load-on-miss step, since that library caches values callers hand
// it but has no notion of a backing store to fall through to on a miss.
// "not found" is cached the same as a hit (via the found field) so that a
// run of lookups for a word the gazetteer genuinely doesn't have does not
// re-query the backing store every time.
//
// missLock is held for the whole backing load, which serializes all misses
// (for any key) but keeps the implementation small. A goroutine that waited
// on missLock re-checks the cache before loading, so concurrent misses for
// the same key cost one backing load; a failed load is not cached, so a
// waiter retries it.
type ttlLRU[K comparable, V any] struct {
	lru      *expirable.LRU[K, ttlLRUEntry[V]]
	missLock sync.Mutex
	loadFunc func(K) (V, bool, error)
	label    string // for log messages, e.g. "place" or "word"
}

type ttlLRUEntry[V any] struct {
	value V
	found bool
}

func newTTLLRU[K comparable, V any](maxSize int, ttl time.Duration, label string, loadFunc func(K) (V, bool, error)) *ttlLRU[K, V] {
	return &ttlLRU[K, V]{
		lru:      expirable.NewLRU[K, ttlLRUEntry[V]](maxSize, nil, ttl),
		loadFunc: loadFunc,
		label:    label,
	}
}

// Get returns the cached value for key, loading it on a miss or an expired
// entry. A backing load failure is logged and reported as absent -- it
// never surfaces to the caller as an error.
func (c *ttlLRU[K, V]) Get(key K) (V, bool) {
	if entry, ok := c.lru.Get(key); ok {
		return entry.value, entry.found
	}

	c.missLock.Lock()
	defer c.missLock.Unlock()

	if entry, ok := c.lru.Get(key); ok {
		return entry.value, entry.found
	}

	value, found, err := c.loadFunc(key)
	if err != nil {
		log.Printf("severe: error loading %s cache entry: %v", c.label, err)
		var zero V
		return zero, false
	}

	c.lru.Add(key, ttlLRUEntry[V]{value: value, found: found})
	return value, found
}

// CachedStore wraps a backing SQLStore with size+TTL bounded place and word
// caches, so a remote-backed gazetteer fronts each index with an in-process
// cache rather than hitting the database on every lookup.
type CachedStore struct {
	placeCache *ttlLRU[int, Place]
	wordCache  *ttlLRU[string, []int]
}

// NewCachedStore builds caches in front of backing. The next-tier lookup
// (backing) is called at most once per miss.
func NewCachedStore(backing *SQLStore) *CachedStore {
	return &CachedStore{
		placeCache: newTTLLRU(PlaceCacheMaxSize, CacheTTL, "place", func(id int) (Place, bool, error) {
			return backing.Place(id)
		}),
		wordCache: newTTLLRU(WordCacheMaxSize, CacheTTL, "word", func(word string) ([]int, bool, error) {
			return backing.Word(word)
		}),
	}
}

func (c *CachedStore) Place(id int) (Place, bool) {
	return c.placeCache.Get(id)
}

func (c *CachedStore) Word(word string) ([]int, bool) {
	return c.wordCache.Get(word)
}
