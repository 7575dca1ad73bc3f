package respcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 50
)

// Producer performs the underlying network fetch for a cache miss.
type Producer func(ctx context.Context) (string, error)

type cacheEntry struct {
	response  string
	createdAt time.Time
}

// Cache is a TTL response cache with request coalescing: concurrent fetches
// for the same key share a single producer call. Entries are evicted when
// expired, then oldest-first when the cache exceeds its maximum size.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	flight  singleflight.Group
	ttl     time.Duration
	maxSize int
	log     *logrus.Logger
}

func New(log *logrus.Logger) *Cache {
	return NewWithConfig(log, DefaultTTL, DefaultMaxEntries)
}

func NewWithConfig(log *logrus.Logger, ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		log:     log,
	}
}

// Fetch returns the cached response for key, or runs producer to fill it.
// For N concurrent callers with the same key the producer runs exactly once
// and all callers receive the same result. The in-flight registration is
// dropped whether the producer succeeds or fails.
func (c *Cache) Fetch(ctx context.Context, key string, producer Producer) (string, error) {
	if cached, ok := c.lookup(key); ok {
		return cached, nil
	}

	v, err, shared := c.flight.Do(key, func() (interface{}, error) {
		// A caller that lost the race may find the entry already stored.
		if cached, ok := c.lookup(key); ok {
			return cached, nil
		}

		response, err := producer(ctx)
		if err != nil {
			return nil, err
		}

		c.store(key, response)
		return response, nil
	})
	if err != nil {
		return "", err
	}

	if shared {
		c.log.WithFields(logrus.Fields{"key": key}).Debug("Coalesced duplicate in-flight request")
	}

	return v.(string), nil
}

// Len reports the number of live entries after an opportunistic purge.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}

	return entry.response, true
}

func (c *Cache) store(key, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		response:  response,
		createdAt: time.Now(),
	}

	c.purgeLocked()
}

// purgeLocked drops expired entries, then trims oldest-created entries until
// the cache fits its maximum size. Callers must hold c.mu.
func (c *Cache) purgeLocked() {
	cutoff := time.Now().Add(-c.ttl)
	for key, entry := range c.entries {
		if entry.createdAt.Before(cutoff) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) <= c.maxSize {
		return
	}

	type keyed struct {
		key       string
		createdAt time.Time
	}

	ordered := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		ordered = append(ordered, keyed{key: key, createdAt: entry.createdAt})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].createdAt.Before(ordered[j].createdAt)
	})

	for _, candidate := range ordered[:len(c.entries)-c.maxSize] {
		delete(c.entries, candidate.key)
	}
}
