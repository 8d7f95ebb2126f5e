package policy

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const listKey = "\x00list"

// maxCacheEntries bounds the cache. Lookups accept any policy number, so
// misses alone could otherwise grow it without limit.
const maxCacheEntries = 1024

type cacheEntry struct {
	policy    Policy
	policies  []Policy
	missing   bool
	expiresAt time.Time
}

// CachedStore keeps recently read policies in memory for a fixed TTL.
// Concurrent misses for the same key share one call to the backing store.
type CachedStore struct {
	next  Store
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	store map[string]cacheEntry
	sf    singleflight.Group
}

func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		store: make(map[string]cacheEntry),
	}
}

// WithClock replaces the cache clock, for tests.
func (c *CachedStore) WithClock(now func() time.Time) *CachedStore {
	c.now = now
	return c
}

// Len reports the number of entries held, expired or not.
func (c *CachedStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *CachedStore) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return cacheEntry{}, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.store[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.store, key)
		}
		c.mu.Unlock()
		return cacheEntry{}, false
	}
	return e, true
}

func (c *CachedStore) set(key string, e cacheEntry) {
	now := c.now()
	e.expiresAt = now.Add(c.ttl)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store[key]; !ok && len(c.store) >= maxCacheEntries {
		c.evictLocked(now)
	}
	c.store[key] = e
}

// evictLocked drops expired entries, then misses, then arbitrary entries
// until there is room for one more. c.mu must be held.
func (c *CachedStore) evictLocked(now time.Time) {
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
	for k, e := range c.store {
		if len(c.store) < maxCacheEntries {
			return
		}
		if e.missing {
			delete(c.store, k)
		}
	}
	for k := range c.store {
		if len(c.store) < maxCacheEntries {
			return
		}
		delete(c.store, k)
	}
}

// Invalidate drops every cached entry.
func (c *CachedStore) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

func (c *CachedStore) Get(ctx context.Context, number string) (Policy, error) {
	if e, ok := c.get(number); ok {
		if e.missing {
			return Policy{}, ErrNotFound
		}
		return e.policy.Clone(), nil
	}

	// The flight is shared, so one caller's cancellation must not fail the rest.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.sf.Do(number, func() (interface{}, error) {
		if e, ok := c.get(number); ok {
			return e, nil
		}
		p, err := c.next.Get(flightCtx, number)
		if errors.Is(err, ErrNotFound) {
			e := cacheEntry{missing: true}
			c.set(number, e)
			return e, nil
		}
		if err != nil {
			return nil, err
		}
		e := cacheEntry{policy: p}
		c.set(number, e)
		log.Debug().Str("policy_number", number).Msg("policy cached")
		return e, nil
	})
	if err != nil {
		return Policy{}, err
	}
	e := v.(cacheEntry)
	if e.missing {
		return Policy{}, ErrNotFound
	}
	return e.policy.Clone(), nil
}

func (c *CachedStore) List(ctx context.Context) ([]Policy, error) {
	if e, ok := c.get(listKey); ok {
		return clonePolicies(e.policies), nil
	}
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.sf.Do(listKey, func() (interface{}, error) {
		if e, ok := c.get(listKey); ok {
			return e.policies, nil
		}
		all, err := c.next.List(flightCtx)
		if err != nil {
			return nil, err
		}
		c.set(listKey, cacheEntry{policies: all})
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePolicies(v.([]Policy)), nil
}

func clonePolicies(in []Policy) []Policy {
	out := make([]Policy, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
