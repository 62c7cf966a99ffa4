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

// SendAddUplink asks the parent for n TX cells.
func (e *Engine) SendAddUplink(peer lladdr.Addr, n int) error {
	if n <= 0 {
		return ErrNoCells
	}
	return e.request(sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, uint32(n)), peer, nil)
}

func (e *Engine) addUplinksRequest(body []byte, peer lladdr.Addr) {
	n, err := sixp.GetLinkCount(sixp.TypeRequest, sixp.CmdAddUplinks, body)
	if err != nil || n == 0 {
		core.LogWarn(e, "Parse error on ADD_UPLINKS request from ", peer, " - DROP")
		return
	}
	if e.ChildrenChannel == 0 {
		core.LogDebug(e, "No children channel yet, refusing ADD_UPLINKS from ", peer.NodeID())
		e.respond(sixp.RcErr, nil, peer, nil)
		return
	}
	sf, err := e.slotframe()
	if err != nil {
		core.LogWarn(e, "Unable to serve ADD_UPLINKS from ", peer.NodeID(), ": ", err)
		e.respond(sixp.RcErrLocked, nil, peer, nil)
		return
	}

	requested := int(n)
	var cells []sixp.Cell
	if e.Backlog.Pending() == 0 {
		cells = e.findUplinkSlots(sf, e.ChildrenChannel, comparison.Min(requested, e.params.MaxLinks), peer)
	}
	if !e.GenerationSatisfied {
		core.LogDebug(e, "Generation cells not yet allocated, granting nothing to ", peer.NodeID())
		cells = nil
	}

	if !e.Coordinator && len(cells) < requested {
		if _, owed := e.Backlog.Find(peer); !owed {
			shortfall := requested - len(cells)
			if err := e.Backlog.Add(peer, shortfall); err != nil {
				core.LogWarn(e, "Unable to record ", shortfall, " cells owed to ", peer.NodeID(), ": ", err)
			} else {
				e.RequiredSlots += shortfall
			}
		}
	}
	e.meas.AddSampleToEWMA("grant_ratio", float64(len(cells))/float64(requested), 0.125)
	core.LogDebug(e, "Granting ", len(cells), "/", requested, " uplinks to ", peer.NodeID())

	e.respond(sixp.RcSuccess, sixp.NewLinkCellsResponse(cells), peer, successful(func(dest lladdr.Addr) {
		e.installDownlinks(dest, cells)
	}))
}

func (e *Engine) addUplinksResponse(body []byte, peer lladdr.Addr) {
	cells, err := sixp.GetGrantCellList(sixp.TypeResponse, sixp.RcSuccess, body)
	if err != nil {
		core.LogWarn(e, "Parse error on ADD_UPLINKS response from ", peer, " (", err, ") - DROP")
		return
	}
	e.CheckAskUplink = len(cells) > 0
	if len(cells) == 0 {
		return
	}
	sf, err := e.slotframe()
	if err != nil {
		core.LogWarn(e, "Unable to install uplinks toward ", peer.NodeID(), ": ", err)
		return
	}
	installed := e.installCells(sf, schedule.OptionTX, peer, cells)
	core.LogInfo(e, "Installed ", installed, " uplinks toward ", peer.NodeID(), ", ", e.Accounting)
}
