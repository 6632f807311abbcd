// Package lrucache provides a small fixed-capacity, least-recently-used
// cache keyed by DomainHash, used by the datastructures/*store packages to
// avoid re-reading cold values from the database on every lookup.
package lrucache

import (
	"container/list"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// LRUCache is a fixed-capacity cache keyed by externalapi.DomainHash
type LRUCache struct {
	capacity int
	entries  map[externalapi.DomainHash]*list.Element
	order    *list.List
}

type entry struct {
	key   externalapi.DomainHash
	value interface{}
}

// New creates a new LRUCache with the given capacity. capacity <= 0 means unbounded.
func New(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		entries:  make(map[externalapi.DomainHash]*list.Element),
		order:    list.New(),
	}
}

// Add inserts or updates the value for key, evicting the least-recently-used
// entry if the cache is at capacity
func (c *LRUCache) Add(key *externalapi.DomainHash, value interface{}) {
	if element, ok := c.entries[*key]; ok {
		element.Value.(*entry).value = value
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&entry{key: *key, value: value})
	c.entries[*key] = element

	if c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}
}

// Get returns the cached value for key, if present
func (c *LRUCache) Get(key *externalapi.DomainHash) (interface{}, bool) {
	element, ok := c.entries[*key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*entry).value, true
}

// Has returns whether key is present in the cache
func (c *LRUCache) Has(key *externalapi.DomainHash) bool {
	_, ok := c.entries[*key]
	return ok
}

// Remove evicts key from the cache, if present
func (c *LRUCache) Remove(key *externalapi.DomainHash) {
	if element, ok := c.entries[*key]; ok {
		c.order.Remove(element)
		delete(c.entries, *key)
	}
}
