/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"strconv"

	"github.com/gttsch/gtsf/lladdr"
)

// SendBackEntry records how many cells are still owed to a child.
type SendBackEntry struct {
	Addr  lladdr.Addr
	Count int
}

// SendBack is the bounded backlog of cells a node owes its children. An entry is freed once its count reaches zero.
type SendBack struct {
	entries  []SendBackEntry
	capacity int
}

// NewSendBack creates a backlog holding at most capacity peers.
func NewSendBack(capacity int) *SendBack {
	return &SendBack{
		entries:  make([]SendBackEntry, 0, capacity),
		capacity: capacity,
	}
}

func (b *SendBack) String() string {
	return "SendBack(" + strconv.Itoa(len(b.entries)) + "/" + strconv.Itoa(b.capacity) + ")"
}

func (b *SendBack) index(addr lladdr.Addr) int {
	for i := range b.entries {
		if b.entries[i].Addr == addr {
			return i
		}
	}
	return -1
}

// Find returns the number of cells owed to addr and whether an entry exists.
func (b *SendBack) Find(addr lladdr.Addr) (int, bool) {
	if i := b.index(addr); i >= 0 {
		return b.entries[i].Count, true
	}
	return 0, false
}

// Add adds n owed cells to the entry of addr, allocating the entry if needed.
func (b *SendBack) Add(addr lladdr.Addr, n int) error {
	if n <= 0 {
		return ErrInvalidCount
	}
	if i := b.index(addr); i >= 0 {
		b.entries[i].Count += n
		return nil
	}
	if len(b.entries) >= b.capacity {
		return ErrCapacity
	}
	b.entries = append(b.entries, SendBackEntry{Addr: addr, Count: n})
	return nil
}

// Decrement removes up to n owed cells from the entry of addr and returns what remains.
func (b *SendBack) Decrement(addr lladdr.Addr, n int) int {
	i := b.index(addr)
	if i < 0 {
		return 0
	}
	b.entries[i].Count -= n
	if b.entries[i].Count <= 0 {
		b.remove(i)
		return 0
	}
	return b.entries[i].Count
}

// Clear frees the entry of addr and returns the count it held.
func (b *SendBack) Clear(addr lladdr.Addr) int {
	i := b.index(addr)
	if i < 0 {
		return 0
	}
	n := b.entries[i].Count
	b.remove(i)
	return n
}

func (b *SendBack) remove(i int) {
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
}

// First returns the oldest entry with cells still owed.
func (b *SendBack) First() (SendBackEntry, bool) {
	for _, e := range b.entries {
		if e.Count > 0 {
			return e, true
		}
	}
	return SendBackEntry{}, false
}

// Pending returns the total number of owed cells.
func (b *SendBack) Pending() int {
	total := 0
	for _, e := range b.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the backlog.
func (b *SendBack) Entries() []SendBackEntry {
	return append([]SendBackEntry(nil), b.entries...)
}
