/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

import (
	"strconv"

	"github.com/gttsch/gtsf/lladdr"
)

// Accounting holds the node counters updated as a side effect of adding and deleting links.
type Accounting struct {
	Coordinator   bool
	TimeSource    lladdr.Addr
	ParentChannel uint16

	// RequiredSlots is the number of TX cells toward the time source this node still needs.
	RequiredSlots int
	// FreeUplinkTimeslots is the number of TX cells toward the time source not yet consumed.
	FreeUplinkTimeslots int

	// GenerationTarget is the number of TX cells reserved for locally generated traffic.
	GenerationTarget    int
	GenerationSlots     int
	GenerationSatisfied bool
}

func (a *Accounting) String() string {
	return "required=" + strconv.Itoa(a.RequiredSlots) + " free_uplink=" + strconv.Itoa(a.FreeUplinkTimeslots) +
		" generation=" + strconv.Itoa(a.GenerationSlots) + "/" + strconv.Itoa(a.GenerationTarget)
}

// NeighborCounters is updated with the per-neighbor link counts.
type NeighborCounters interface {
	AddTxLink(addr lladdr.Addr, shared bool)
	RemoveTxLink(addr lladdr.Addr, shared bool)
	AddRxLink(addr lladdr.Addr)
	RemoveRxLink(addr lladdr.Addr)
	QueueLen(addr lladdr.Addr) int
}
