/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/cornelk/hashmap"
	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
)

// Neighbor is the per-peer state kept by a node.
type Neighbor struct {
	Addr            lladdr.Addr
	FrequencyOffset uint16
	IsChild         bool

	TxLinks          int
	DedicatedTxLinks int
	RxLinks          int

	// QueueLen is the number of frames waiting for a TX cell toward this neighbor.
	QueueLen int
}

func (n *Neighbor) String() string {
	return n.Addr.String() + " ch=" + strconv.Itoa(int(n.FrequencyOffset)) + " child=" + strconv.FormatBool(n.IsChild) +
		" tx=" + strconv.Itoa(n.TxLinks) + " dedicated=" + strconv.Itoa(n.DedicatedTxLinks) + " rx=" + strconv.Itoa(n.RxLinks) +
		" queue=" + strconv.Itoa(n.QueueLen)
}

// NeighborTable holds the neighbors of a node, keyed by link-layer address.
type NeighborTable struct {
	neighbors *hashmap.HashMap
}

// NewNeighborTable creates an empty neighbor table.
func NewNeighborTable() *NeighborTable {
	return &NeighborTable{neighbors: hashmap.New(16)}
}

func (t *NeighborTable) String() string {
	return "NeighborTable"
}

func keyOf(addr lladdr.Addr) string {
	return string(addr[:])
}

// Find returns the neighbor with the specified address or nil if it does not exist.
func (t *NeighborTable) Find(addr lladdr.Addr) *Neighbor {
	value, ok := t.neighbors.GetStringKey(keyOf(addr))
	if !ok {
		return nil
	}
	return value.(*Neighbor)
}

// Add returns the neighbor with the specified address, creating it if necessary.
func (t *NeighborTable) Add(addr lladdr.Addr) *Neighbor {
	value, loaded := t.neighbors.GetOrInsert(keyOf(addr), &Neighbor{Addr: addr})
	if !loaded {
		core.LogDebug(t, "Added neighbor ", addr)
	}
	return value.(*Neighbor)
}

// Remove removes the neighbor with the specified address.
func (t *NeighborTable) Remove(addr lladdr.Addr) {
	t.neighbors.Del(keyOf(addr))
	core.LogDebug(t, "Removed neighbor ", addr)
}

// Len returns the number of neighbors.
func (t *NeighborTable) Len() int {
	return t.neighbors.Len()
}

// All returns all neighbors ordered by address.
func (t *NeighborTable) All() []*Neighbor {
	all := make([]*Neighbor, 0, t.neighbors.Len())
	for kv := range t.neighbors.Iter() {
		all = append(all, kv.Value.(*Neighbor))
	}
	sort.Slice(all, func(i, j int) bool {
		return bytes.Compare(all[i].Addr[:], all[j].Addr[:]) < 0
	})
	return all
}

// AddTxLink records a new TX cell toward addr.
func (t *NeighborTable) AddTxLink(addr lladdr.Addr, shared bool) {
	n := t.Add(addr)
	n.TxLinks++
	if !shared {
		n.DedicatedTxLinks++
	}
}

// RemoveTxLink records the removal of a TX cell toward addr.
func (t *NeighborTable) RemoveTxLink(addr lladdr.Addr, shared bool) {
	n := t.Find(addr)
	if n == nil {
		return
	}
	if n.TxLinks > 0 {
		n.TxLinks--
	}
	if !shared && n.DedicatedTxLinks > 0 {
		n.DedicatedTxLinks--
	}
}

// AddRxLink records a new RX cell from addr.
func (t *NeighborTable) AddRxLink(addr lladdr.Addr) {
	t.Add(addr).RxLinks++
}

// RemoveRxLink records the removal of an RX cell from addr.
func (t *NeighborTable) RemoveRxLink(addr lladdr.Addr) {
	if n := t.Find(addr); n != nil && n.RxLinks > 0 {
		n.RxLinks--
	}
}

// QueueLen returns the length of the transmit queue toward addr.
func (t *NeighborTable) QueueLen(addr lladdr.Addr) int {
	if n := t.Find(addr); n != nil {
		return n.QueueLen
	}
	return 0
}

// SetQueueLen sets the length of the transmit queue toward addr.
func (t *NeighborTable) SetQueueLen(addr lladdr.Addr, n int) {
	t.Add(addr).QueueLen = n
}
