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

// SendCount asks peer how many cells with opts it has scheduled with this node.
func (e *Engine) SendCount(peer lladdr.Addr, opts sixp.CellOptions) error {
	return e.request(sixp.CmdCount, sixp.NewCountRequest(opts), peer, nil)
}

// SendList asks peer for up to maxCells of its cells with opts, skipping the first offset.
func (e *Engine) SendList(peer lladdr.Addr, opts sixp.CellOptions, offset uint16, maxCells uint16) error {
	return e.request(sixp.CmdList, sixp.NewListRequest(opts, offset, maxCells), peer, nil)
}

// SendClear asks peer to drop every cell scheduled with this node. The local cells are removed on success.
func (e *Engine) SendClear(peer lladdr.Addr) error {
	return e.request(sixp.CmdClear, sixp.NewClearRequest(), peer, nil)
}

// SendSignal sends an opaque payload to peer, which echoes it back.
func (e *Engine) SendSignal(peer lladdr.Addr, payload []byte) error {
	return e.request(sixp.CmdSignal, sixp.NewSignalRequest(payload), peer, nil)
}

// linksMatching returns the normal links toward peer carrying every option in opts.
func (e *Engine) linksMatching(peer lladdr.Addr, opts sixp.CellOptions) []*schedule.Link {
	sf, err := e.slotframe()
	if err != nil {
		return nil
	}
	return e.sched.LinksWith(sf, peer, schedule.KindNormal, schedule.LinkOptions(opts))
}

func (e *Engine) countRequest(body []byte, peer lladdr.Addr) {
	opts, err := sixp.GetCellOptions(sixp.TypeRequest, sixp.CmdCount, body)
	if err != nil {
		core.LogWarn(e, "Parse error on COUNT request from ", peer, " (", err, ") - DROP")
		return
	}
	total := len(e.linksMatching(peer, opts))
	e.respond(sixp.RcSuccess, sixp.NewCountResponse(uint16(total)), peer, nil)
}

func (e *Engine) listRequest(body []byte, peer lladdr.Addr) {
	opts, err := sixp.GetCellOptions(sixp.TypeRequest, sixp.CmdList, body)
	if err != nil {
		core.LogWarn(e, "Parse error on LIST request from ", peer, " (", err, ") - DROP")
		return
	}
	offset, _ := sixp.GetOffset(sixp.TypeRequest, sixp.CmdList, body)
	maxCells, _ := sixp.GetMaxNumCells(sixp.TypeRequest, sixp.CmdList, body)

	cells := toCells(e.linksMatching(peer, opts))
	start := comparison.Min(int(offset), len(cells))
	end := comparison.Min(start+comparison.Min(int(maxCells), e.params.MaxLinks), len(cells))
	rc := sixp.RcSuccess
	if end == len(cells) {
		rc = sixp.RcEOL
	}
	e.respond(rc, sixp.EncodeCells(cells[start:end]), peer, nil)
}

func (e *Engine) clearRequest(peer lladdr.Addr) {
	removed := e.clearLinks(peer)
	core.LogInfo(e, "Cleared ", removed, " cells with ", peer.NodeID())
	e.respond(sixp.RcSuccess, nil, peer, nil)
}

func (e *Engine) signalRequest(body []byte, peer lladdr.Addr) {
	payload, err := sixp.GetPayload(sixp.TypeRequest, sixp.CmdSignal, body)
	if err != nil {
		core.LogWarn(e, "Parse error on SIGNAL request from ", peer, " (", err, ") - DROP")
		return
	}
	e.respond(sixp.RcSuccess, append([]byte(nil), payload...), peer, nil)
}

func (e *Engine) countResponse(body []byte, peer lladdr.Addr) {
	total, err := sixp.GetTotalNumCells(sixp.TypeResponse, sixp.RcSuccess, body)
	if err != nil {
		core.LogWarn(e, "Parse error on COUNT response from ", peer, " (", err, ") - DROP")
		return
	}
	e.meas.SetInt("count."+peer.String(), int(total))
}

func (e *Engine) listResponse(rc sixp.Code, body []byte, peer lladdr.Addr) {
	cells, err := sixp.GetCellList(sixp.TypeResponse, rc, body)
	if err != nil {
		core.LogWarn(e, "Parse error on LIST response from ", peer, " (", err, ") - DROP")
		return
	}
	e.meas.SetInt("list."+peer.String(), len(cells))
}

func (e *Engine) clearResponse(peer lladdr.Addr) {
	removed := e.clearLinks(peer)
	core.LogInfo(e, "Cleared ", removed, " cells with ", peer.NodeID())
}

// clearLinks removes every normal link toward peer.
func (e *Engine) clearLinks(peer lladdr.Addr) int {
	sf, err := e.slotframe()
	if err != nil {
		return 0
	}
	removed := 0
	for _, l := range e.sched.LinksWith(sf, peer, schedule.KindNormal, 0) {
		if err := e.sched.DeleteLink(sf, l.Options, l.Kind, l.Addr, l.Timeslot, l.Channel); err != nil {
			core.LogWarn(e, "Cannot delete ", l, ": ", err)
			continue
		}
		removed++
	}
	return removed
}
