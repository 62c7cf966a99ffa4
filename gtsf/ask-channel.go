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
	"github.com/gttsch/gtsf/sixp"
)

// AskChannel asks the parent which channel this node should use with its own children.
func (e *Engine) AskChannel(peer lladdr.Addr) error {
	return e.request(sixp.CmdAskChannel, sixp.NewChannelRequest(), peer, nil)
}

// SelectTwoHopChannel picks a channel offset for a child's children. Starting from a random index into the
// hopping sequence, it scans forward and then backward for an offset that is not the parent, default or
// children channel and is not already cached for another child.
func (e *Engine) SelectTwoHopChannel() (uint16, error) {
	if e.ChildrenChannel == 0 || e.ParentChannel == 0 {
		return 0, ErrNoChannelAvailable
	}
	usable := func(i int) bool {
		ch := uint16(i)
		return ch != e.ParentChannel && ch != e.DefaultChannel && ch != e.ChildrenChannel && !e.TwoHop.Contains(ch)
	}

	n := len(e.params.HoppingSequence)
	start := e.rng.Intn(n)
	for i := start; i < n; i++ {
		if usable(i) {
			return uint16(i), nil
		}
	}
	for i := start; i >= 0; i-- {
		if usable(i) {
			return uint16(i), nil
		}
	}
	return 0, ErrNoChannelAvailable
}

func (e *Engine) askChannelRequest(body []byte, peer lladdr.Addr) {
	ch, cached := e.TwoHop.Lookup(peer)
	if !cached {
		var err error
		if ch, err = e.SelectTwoHopChannel(); err != nil {
			core.LogWarn(e, "Unable to select channel for ", peer.NodeID(), ": ", err)
			e.respond(sixp.RcErr, nil, peer, nil)
			return
		}
	}

	e.respond(sixp.RcSuccess, sixp.NewChannelResponse(ch), peer, successful(func(dest lladdr.Addr) {
		if err := e.TwoHop.Put(dest, ch); err != nil {
			core.LogWarn(e, "Unable to cache channel ", ch, " for ", dest.NodeID(), ": ", err)
		}
		n := e.nbrs.Add(dest)
		n.FrequencyOffset = ch
		n.IsChild = true
		core.LogInfo(e, "Assigned channel ", ch, " to child ", dest.NodeID())
	}))
}

func (e *Engine) askChannelResponse(body []byte, peer lladdr.Addr) {
	ch, err := sixp.GetChannel(sixp.TypeResponse, sixp.RcSuccess, body)
	if err != nil {
		core.LogWarn(e, "Unable to decode ASK_CHANNEL response from ", peer, " (", err, ") - DROP")
		return
	}
	e.ChildrenChannel = ch
	core.LogInfo(e, "Children channel ", ch)
}
