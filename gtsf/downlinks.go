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
	"github.com/gttsch/gtsf/utils/comparison"
)

// SendAddDownlink offers cells to the first child this node still owes cells to. The cells are installed as RX
// and the debt settled once the request is sent.
func (e *Engine) SendAddDownlink() error {
	entry, ok := e.Backlog.First()
	if !ok {
		return nil
	}
	sf, err := e.slotframe()
	if err != nil {
		return err
	}
	cells := e.findUplinkSlots(sf, e.ChildrenChannel, comparison.Min(entry.Count, e.params.MaxLinks), entry.Addr)
	if len(cells) == 0 {
		core.LogDebug(e, "No free uplink for send-back toward ", entry.Addr.NodeID())
		return ErrNoCells
	}
	core.LogDebug(e, "Send-back of ", len(cells), "/", entry.Count, " cells to ", entry.Addr.NodeID())
	return e.request(sixp.CmdAddDownlinks, sixp.NewLinkCellsRequest(sixp.CmdAddDownlinks, cells), entry.Addr,
		successful(func(dest lladdr.Addr) {
			if installed := e.installDownlinks(dest, cells); installed > 0 {
				left := e.Backlog.Decrement(dest, installed)
				core.LogDebug(e, "Send-back toward ", dest.NodeID(), " now ", left)
			}
		}))
}

func (e *Engine) addDownlinksRequest(body []byte, peer lladdr.Addr) {
	cells, err := sixp.GetRequestCellList(sixp.TypeRequest, sixp.CmdAddDownlinks, body)
	if err != nil {
		core.LogWarn(e, "Parse error on ADD_DOWNLINKS request from ", peer, " (", err, ") - DROP")
		return
	}
	e.CheckAskUplink = len(cells) > 0
	if len(cells) > 0 {
		sf, err := e.slotframe()
		if err != nil {
			core.LogWarn(e, "Unable to install uplinks toward ", peer.NodeID(), ": ", err)
			e.respond(sixp.RcErrLocked, nil, peer, nil)
			return
		}
		installed := e.installCells(sf, schedule.OptionTX, peer, cells)
		core.LogInfo(e, "Installed ", installed, " uplinks offered by ", peer.NodeID(), ", ", e.Accounting)
	}
	e.respond(sixp.RcSuccess, nil, peer, nil)
}
