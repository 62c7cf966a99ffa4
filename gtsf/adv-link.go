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

// AskAdvLink asks the parent for n advertising cells.
func (e *Engine) AskAdvLink(peer lladdr.Addr, n int) error {
	if n <= 0 {
		return ErrNoCells
	}
	return e.request(sixp.CmdAskAdvLink, sixp.NewLinkCountRequest(sixp.CmdAskAdvLink, sixp.CellOptionTX|sixp.CellOptionRX, uint32(n)), peer, nil)
}

func (e *Engine) askAdvLinkRequest(body []byte, peer lladdr.Addr) {
	n, err := sixp.GetLinkCount(sixp.TypeRequest, sixp.CmdAskAdvLink, body)
	if err != nil || n == 0 {
		core.LogWarn(e, "Parse error on ASK_ADV_LINK request from ", peer, " - DROP")
		return
	}
	if e.ChildrenChannel == 0 {
		core.LogDebug(e, "No children channel yet, refusing ASK_ADV_LINK from ", peer.NodeID())
		e.respond(sixp.RcErr, nil, peer, nil)
		return
	}
	sf, err := e.slotframe()
	if err != nil {
		core.LogWarn(e, "Unable to serve ASK_ADV_LINK from ", peer.NodeID(), ": ", err)
		return
	}

	cells := e.findAdvLinkSlots(sf, e.ChildrenChannel, comparison.Min(int(n), e.params.MaxLinks))
	if len(cells) == 0 {
		// The transaction is left to time out.
		core.LogWarn(e, "Cannot find any free advertising cell for ", peer.NodeID())
		return
	}

	sent := e.respond(sixp.RcSuccess, sixp.NewLinkCellsResponse(cells), peer, successful(func(dest lladdr.Addr) {
		e.addAdvLinks(dest, cells)
		for _, c := range cells {
			if !e.Reserved.Release(c) {
				core.LogWarn(e, "Advertising cell ", c, " was not reserved")
			}
		}
	}))
	if !sent {
		for _, c := range cells {
			e.Reserved.Release(c)
		}
	}
}

func (e *Engine) askAdvLinkResponse(body []byte, peer lladdr.Addr) {
	cells, err := sixp.GetGrantCellList(sixp.TypeResponse, sixp.RcSuccess, body)
	if err != nil {
		core.LogWarn(e, "Parse error on ASK_ADV_LINK response from ", peer, " (", err, ") - DROP")
		return
	}
	if len(cells) > 0 && e.ParentChannel == 0 {
		e.ParentChannel = cells[0].Channel
		e.nbrs.Add(peer).FrequencyOffset = e.ParentChannel
		core.LogInfo(e, "Parent channel ", e.ParentChannel)
	}
	e.addAdvLinks(peer, cells)
}

// addAdvLinks installs shared advertising cells with peer.
func (e *Engine) addAdvLinks(peer lladdr.Addr, cells []sixp.Cell) {
	sf, err := e.slotframe()
	if err != nil {
		core.LogWarn(e, "Unable to add advertising cells with ", peer.NodeID(), ": ", err)
		return
	}
	installed := e.installCells(sf, schedule.OptionTX|schedule.OptionRX, peer, cells)
	e.AdvTimeslots += installed
	if e.Coordinator {
		e.FreeUplinkTimeslots -= installed
	}
	core.LogDebug(e, "Added ", installed, " advertising cells with ", peer.NodeID())
}
