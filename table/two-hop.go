/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"github.com/gttsch/gtsf/lladdr"
)

// TwoHopEntry maps a child to the channel offset it was told to use for its own children.
type TwoHopEntry struct {
	Addr    lladdr.Addr
	Channel uint16
}

// TwoHopCache is the bounded cache of channels handed out to children. Channel 0 is never stored.
type TwoHopCache struct {
	entries  []TwoHopEntry
	capacity int
}

// NewTwoHopCache creates a cache holding at most capacity children.
func NewTwoHopCache(capacity int) *TwoHopCache {
	return &TwoHopCache{
		entries:  make([]TwoHopEntry, 0, capacity),
		capacity: capacity,
	}
}

// Lookup returns the channel cached for addr.
func (c *TwoHopCache) Lookup(addr lladdr.Addr) (uint16, bool) {
	for _, e := range c.entries {
		if e.Addr == addr {
			return e.Channel, true
		}
	}
	return 0, false
}

// Contains returns whether any child has been given channel ch.
func (c *TwoHopCache) Contains(ch uint16) bool {
	for _, e := range c.entries {
		if e.Channel == ch {
			return true
		}
	}
	return false
}

// Put caches ch for addr, replacing any previous channel of that child.
func (c *TwoHopCache) Put(addr lladdr.Addr, ch uint16) error {
	if ch == 0 {
		return ErrInvalidChannel
	}
	for i := range c.entries {
		if c.entries[i].Addr == addr {
			c.entries[i].Channel = ch
			return nil
		}
	}
	if len(c.entries) >= c.capacity {
		return ErrCapacity
	}
	c.entries = append(c.entries, TwoHopEntry{Addr: addr, Channel: ch})
	return nil
}

// Remove forgets the channel of addr.
func (c *TwoHopCache) Remove(addr lladdr.Addr) {
	for i := range c.entries {
		if c.entries[i].Addr == addr {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Clear empties the cache.
func (c *TwoHopCache) Clear() {
	c.entries = c.entries[:0]
}

// Len returns the number of cached children.
func (c *TwoHopCache) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the cache.
func (c *TwoHopCache) Entries() []TwoHopEntry {
	return append([]TwoHopEntry(nil), c.entries...)
}
