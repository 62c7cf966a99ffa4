/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import (
	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/schedule"
	"github.com/gttsch/gtsf/sixp"
)

// isFree returns whether timeslot ts is unused on every channel and on ch.
func (e *Engine) isFree(sf *schedule.Slotframe, ts int, ch uint16) bool {
	return e.sched.LinkByTimeslotOnly(sf, uint16(ts)) == nil && e.sched.LinkAt(sf, ts, ch) == nil
}

// notOwnedBy returns whether (ts, ch) is empty or held by a peer other than peer.
func (e *Engine) notOwnedBy(sf *schedule.Slotframe, ts int, ch uint16, peer lladdr.Addr) bool {
	l := e.sched.LinkAt(sf, ts, ch)
	return l == nil || l.Addr != peer
}

// checkConsecutiveRX returns whether a coordinator can receive from peer at ts without the peer's adjacent
// cells colliding: (ts+1, ch) and (ts-1, ch) may not be held by peer, nor (ts-2, ch) when ts-1 is a minimal
// schedule timeslot.
func (e *Engine) checkConsecutiveRX(sf *schedule.Slotframe, ts int, ch uint16, peer lladdr.Addr) bool {
	if !e.notOwnedBy(sf, ts+1, ch, peer) || !e.notOwnedBy(sf, ts-1, ch, peer) {
		return false
	}
	if (ts-1)%schedule.MinimalPeriod == 0 {
		return e.notOwnedBy(sf, ts-2, ch, peer)
	}
	return true
}

// findUplinkSlots returns up to n timeslots on ch where peer can be given an uplink, in increasing order.
// On a coordinator a slot must pass checkConsecutiveRX. Elsewhere it must be followed by an unreserved TX cell
// toward the time source, directly or, when the next timeslot belongs to the minimal schedule, one later.
func (e *Engine) findUplinkSlots(sf *schedule.Slotframe, ch uint16, n int, peer lladdr.Addr) []sixp.Cell {
	var cells []sixp.Cell
	for ts := 1; ts < int(sf.Length) && len(cells) < n; ts++ {
		if !e.isFree(sf, ts, ch) {
			continue
		}
		if e.Coordinator {
			if e.checkConsecutiveRX(sf, ts, ch, peer) {
				cells = append(cells, sixp.Cell{Timeslot: uint16(ts), Channel: ch})
				ts++
			}
			continue
		}
		if e.sched.CheckTX(sf, ts+1, e.ParentChannel) {
			cells = append(cells, sixp.Cell{Timeslot: uint16(ts), Channel: ch})
			ts++
		} else if (ts+1)%schedule.MinimalPeriod == 0 && e.sched.CheckTX(sf, ts+2, e.ParentChannel) {
			cells = append(cells, sixp.Cell{Timeslot: uint16(ts), Channel: ch})
			ts += 2
		}
	}
	return cells
}

// findAdvLinkSlots returns up to n free timeslots on ch not already promised to another peer, reserving each.
func (e *Engine) findAdvLinkSlots(sf *schedule.Slotframe, ch uint16, n int) []sixp.Cell {
	var cells []sixp.Cell
	for ts := 0; ts < int(sf.Length) && len(cells) < n; ts++ {
		if !e.isFree(sf, ts, ch) || e.Reserved.IsReserved(uint16(ts)) {
			continue
		}
		cell := sixp.Cell{Timeslot: uint16(ts), Channel: ch}
		if err := e.Reserved.Reserve(cell); err != nil {
			core.LogWarn(e, "Unable to reserve advertising cell ", cell, ": ", err)
			break
		}
		cells = append(cells, cell)
	}
	return cells
}

// FindFreeAdvSlot returns the first timeslot free on every channel and on ch.
func (e *Engine) FindFreeAdvSlot(ch uint16) (uint16, error) {
	sf, err := e.slotframe()
	if err != nil {
		return 0, err
	}
	for ts := 0; ts < int(sf.Length); ts++ {
		if e.isFree(sf, ts, ch) {
			return uint16(ts), nil
		}
	}
	return 0, ErrNoCells
}

// FindLastUplinks returns up to n cells held by peer, scanning from the end of the slotframe. The cells are
// reported on the children channel.
func (e *Engine) FindLastUplinks(peer lladdr.Addr, n int) []sixp.Cell {
	sf, err := e.slotframe()
	if err != nil {
		return nil
	}
	var cells []sixp.Cell
	for ts := int(sf.Length) - 1; ts > 0 && len(cells) < n; ts-- {
		if l := e.sched.LinkByTimeslotOnly(sf, uint16(ts)); l != nil && l.Addr == peer {
			cells = append(cells, sixp.Cell{Timeslot: uint16(ts), Channel: e.ChildrenChannel})
		}
	}
	return cells
}

// installCells adds a link toward peer for each cell and returns how many were installed.
func (e *Engine) installCells(sf *schedule.Slotframe, opts schedule.LinkOptions, peer lladdr.Addr, cells []sixp.Cell) int {
	installed := 0
	for _, c := range cells {
		if _, err := e.sched.AddLink(sf, opts, schedule.KindNormal, peer, c.Timeslot, c.Channel); err != nil {
			core.LogWarn(e, "Unable to add ", opts, " link ", c, " toward ", peer.NodeID(), ": ", err)
			continue
		}
		installed++
	}
	return installed
}

// removeCells deletes the links with opts toward peer at each cell and returns the cells that were removed.
func (e *Engine) removeCells(sf *schedule.Slotframe, opts schedule.LinkOptions, peer lladdr.Addr, cells []sixp.Cell) []sixp.Cell {
	var removed []sixp.Cell
	for _, c := range cells {
		if err := e.sched.DeleteLink(sf, opts, schedule.KindNormal, peer, c.Timeslot, c.Channel); err != nil {
			core.LogWarn(e, "Cannot delete ", opts, " link ", c, " toward ", peer.NodeID(), ": ", err)
			continue
		}
		removed = append(removed, c)
	}
	return removed
}

// installDownlinks adds RX cells toward peer and returns how many were installed.
func (e *Engine) installDownlinks(peer lladdr.Addr, cells []sixp.Cell) int {
	sf, err := e.slotframe()
	if err != nil {
		core.LogWarn(e, "Unable to install downlinks toward ", peer.NodeID(), ": ", err)
		return 0
	}
	return e.installCells(sf, schedule.OptionRX, peer, cells)
}
