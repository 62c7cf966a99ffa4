/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import (
	"errors"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/schedule"
	"github.com/gttsch/gtsf/sixtop"
)

// Tick runs one step of the negotiation. At most one request is opened per tick. A coordinator only pays back
// cells it owes its children. Other nodes first obtain advertising cells and a children channel from their
// time source, then pay back their children, then ask for the uplinks they still require.
func (e *Engine) Tick() error {
	if e.backoff > 0 {
		e.backoff--
		if e.backoff > 0 {
			return ErrBackoff
		}
	}

	var err error
	switch {
	case e.Coordinator:
		if e.Backlog.Pending() > 0 && e.FreeUplinkTimeslots > 0 {
			err = e.SendAddDownlink()
		}
	case !e.HasTimeSource():
		return ErrNoTimeSource
	case e.AdvTimeslots == 0 && e.params.AdvLinks > 0:
		err = e.AskAdvLink(e.TimeSource, e.params.AdvLinks)
	case e.ChildrenChannel == 0:
		err = e.AskChannel(e.TimeSource)
	case e.Backlog.Pending() > 0 && e.FreeUplinkTimeslots > 0:
		err = e.SendAddDownlink()
	case e.RequiredSlots > 0 && e.CheckAskUplink:
		err = e.SendAddUplink(e.TimeSource, e.RequiredSlots)
	}

	if errors.Is(err, sixtop.ErrBusy) || errors.Is(err, schedule.ErrLocked) {
		core.LogTrace(e, "Retrying next tick: ", err)
		return nil
	}
	return err
}
