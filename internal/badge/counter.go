// Package badge keeps the per-shopper cart unit count backing the navbar
// badge. Counts are advisory UI state, kept in memory and rebuilt from the
// cart on read when missing.
package badge

import "sync"

// Counter implements replay.Notifier. One increment per unit added keeps the
// badge consistent with the merged cart even across multi-line replays.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{
		counts: make(map[string]int),
	}
}

func (c *Counter) ItemAdded(ownerKey string, _ int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[ownerKey]++
}

func (c *Counter) ItemRemoved(ownerKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[ownerKey] > 0 {
		c.counts[ownerKey]--
	}
}

// Set overwrites the count, used when the cart is loaded or replaced
// wholesale.
func (c *Counter) Set(ownerKey string, units int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if units <= 0 {
		delete(c.counts, ownerKey)
		return
	}
	c.counts[ownerKey] = units
}

func (c *Counter) Total(ownerKey string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[ownerKey]
}

func (c *Counter) Clear(ownerKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, ownerKey)
}
