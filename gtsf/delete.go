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

// SendDeleteUplink releases TX cells toward the parent. Once sent, the cells are removed and the demand of
// any RX cell they relayed is dropped.
func (e *Engine) SendDeleteUplink(peer lladdr.Addr, cells []sixp.Cell) error {
	if len(cells) == 0 {
		return ErrNoCells
	}
	return e.request(sixp.CmdDeleteUplink, sixp.NewLinkCellsRequest(sixp.CmdDeleteUplink, cells), peer,
		successful(func(dest lladdr.Addr) {
			_, implied := e.deleteUplinks(dest, cells)
			e.RequiredSlots -= len(implied)
			if e.RequiredSlots < 0 {
				e.RequiredSlots = 0
			}
		}))
}

// SendDeleteDownlink revokes the uplinks of a child. Once sent, the matching RX cells are removed and owed
// back to the child, to be offered again with ADD_DOWNLINKS once relay cells are free.
func (e *Engine) SendDeleteDownlink(peer lladdr.Addr, cells []sixp.Cell) error {
	if len(cells) == 0 {
		return ErrNoCells
	}
	return e.request(sixp.CmdDeleteDownlink, sixp.NewLinkCellsRequest(sixp.CmdDeleteDownlink, cells), peer,
		successful(func(dest lladdr.Addr) {
			sf, err := e.slotframe()
			if err != nil {
				core.LogWarn(e, "Unable to delete downlinks toward ", dest.NodeID(), ": ", err)
				return
			}
			removed := len(e.removeCells(sf, schedule.OptionRX, dest, cells))
			if removed == 0 {
				return
			}
			if err := e.Backlog.Add(dest, removed); err != nil {
				core.LogWarn(e, "Unable to record ", removed, " cells owed to ", dest.NodeID(), ": ", err)
			}
		}))
}

// deleteUplinks removes TX cells toward peer. For every removed cell whose previous timeslot holds an RX cell
// on the children channel, that RX cell is returned as implied.
func (e *Engine) deleteUplinks(peer lladdr.Addr, cells []sixp.Cell) (removed []sixp.Cell, implied []sixp.Cell) {
	sf, err := e.slotframe()
	if err != nil {
		core.LogWarn(e, "Unable to delete uplinks toward ", peer.NodeID(), ": ", err)
		return nil, nil
	}
	removed = e.removeCells(sf, schedule.OptionTX, peer, cells)
	for _, c := range removed {
		ts := int(c.Timeslot) - 1
		if e.sched.CheckRX(sf, ts, e.ChildrenChannel) {
			implied = append(implied, sixp.Cell{Timeslot: uint16(ts), Channel: e.ChildrenChannel})
		}
	}
	return removed, implied
}

// deleteDownlinkRequest handles the parent revoking this node's uplinks. The RX cells they relayed are revoked
// in turn from the children owning them.
func (e *Engine) deleteDownlinkRequest(body []byte, peer lladdr.Addr) {
	cells, err := sixp.GetRequestCellList(sixp.TypeRequest, sixp.CmdDeleteDownlink, body)
	if err != nil {
		core.LogWarn(e, "Parse error on DELETE_DOWNLINK request from ", peer, " (", err, ") - DROP")
		return
	}
	// Removing a relaying TX cell puts its demand back into RequiredSlots.
	_, implied := e.deleteUplinks(peer, cells)

	sf, err := e.slotframe()
	if err == nil {
		var owners []lladdr.Addr
		groups := make(map[lladdr.Addr][]sixp.Cell)
		for _, c := range implied {
			l := e.sched.LinkByTimeslot(sf, c.Timeslot, c.Channel)
			if l == nil {
				core.LogWarn(e, "Downlink ", c, " cannot be found")
				continue
			}
			if _, ok := groups[l.Addr]; !ok {
				owners = append(owners, l.Addr)
			}
			groups[l.Addr] = append(groups[l.Addr], c)
		}
		for _, owner := range owners {
			if err := e.SendDeleteDownlink(owner, groups[owner]); err != nil {
				core.LogWarn(e, "Unable to revoke ", len(groups[owner]), " uplinks of ", owner.NodeID(), ": ", err)
			}
		}
	}
	e.respond(sixp.RcSuccess, nil, peer, nil)
}

// deleteUplinkRequest handles a child releasing its uplinks.
func (e *Engine) deleteUplinkRequest(body []byte, peer lladdr.Addr) {
	cells, err := sixp.GetRequestCellList(sixp.TypeRequest, sixp.CmdDeleteUplink, body)
	if err != nil {
		core.LogWarn(e, "Parse error on DELETE_UPLINK request from ", peer, " (", err, ") - DROP")
		return
	}
	if len(cells) > 0 {
		if sf, err := e.slotframe(); err == nil {
			e.removeCells(sf, schedule.OptionRX, peer, cells)
		} else {
			core.LogWarn(e, "Unable to delete downlinks toward ", peer.NodeID(), ": ", err)
		}
	}
	e.RequiredSlots -= e.Backlog.Clear(peer)
	if e.RequiredSlots < 0 {
		e.RequiredSlots = 0
	}
	e.respond(sixp.RcSuccess, nil, peer, nil)
}
