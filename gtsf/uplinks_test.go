/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import (
	"testing"

	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/schedule"
	"github.com/gttsch/gtsf/sixp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grantOf(t *testing.T, o output) []sixp.Cell {
	require.Equal(t, sixp.TypeResponse, o.t)
	require.Equal(t, sixp.RcSuccess, o.code)
	cells, err := sixp.GetGrantCellList(sixp.TypeResponse, sixp.RcSuccess, o.body)
	require.NoError(t, err)
	n, err := sixp.GetLinkCount(sixp.TypeResponse, sixp.RcSuccess, o.body)
	require.NoError(t, err)
	require.Equal(t, uint32(len(cells)), n)
	return cells
}

func TestAddUplinksPartialGrant(t *testing.T) {
	e, tr, sf := newRelay(t)

	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 5), childAddr)
	require.Len(t, tr.outputs, 1)
	assert.Equal(t, childAddr, tr.last().dest)
	assert.Equal(t, []sixp.Cell{{Timeslot: 2, Channel: 2}, {Timeslot: 8, Channel: 2}}, grantOf(t, tr.last()))

	owed, ok := e.Backlog.Find(childAddr)
	require.True(t, ok)
	assert.Equal(t, 3, owed)
	assert.Equal(t, 3, e.RequiredSlots)
	assert.InDelta(t, 0.4, e.meas.Float("grant_ratio"), 1e-9)

	tr.sent()
	assert.True(t, e.sched.CheckRX(sf, 2, 2))
	assert.True(t, e.sched.CheckRX(sf, 8, 2))
	// Both uplinks now relay a child cell.
	assert.False(t, e.sched.CheckTX(sf, 3, 1))
	assert.False(t, e.sched.CheckTX(sf, 9, 1))
	assert.Equal(t, 0, e.FreeUplinkTimeslots)
	assert.Equal(t, 3, e.RequiredSlots)

	// Cells are owed, so the next request is answered from the backlog only.
	tr.outputs = nil
	tr.flushed = 0
	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 2), childAddr)
	assert.Empty(t, grantOf(t, tr.last()))
	owed, _ = e.Backlog.Find(childAddr)
	assert.Equal(t, 3, owed)
	assert.Equal(t, 3, e.RequiredSlots)
}

func TestAddUplinksMinimalSkip(t *testing.T) {
	e, tr := newEngine(t, relayAddr, false, func(p *Params) { p.GenerationSlots = 0 })
	e.SetTimeSource(coordAddr, 1)
	e.ChildrenChannel = 2
	sf := e.sched.Slotframe(0)
	// Timeslot 5 belongs to the minimal schedule, so an RX at 4 is relayed by the TX at 6.
	_, err := e.sched.AddLink(sf, schedule.OptionTX, schedule.KindNormal, coordAddr, 6, 1)
	require.NoError(t, err)

	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 1), childAddr)
	assert.Equal(t, []sixp.Cell{{Timeslot: 4, Channel: 2}}, grantOf(t, tr.last()))
	tr.sent()
	assert.False(t, e.sched.CheckTX(sf, 6, 1))
	assert.Equal(t, 0, e.FreeUplinkTimeslots)
}

func TestAddUplinksCoordinator(t *testing.T) {
	e, tr := newEngine(t, coordAddr, true, nil)

	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 3), relayAddr)
	cells := grantOf(t, tr.last())
	assert.Equal(t, []sixp.Cell{{Timeslot: 1, Channel: 1}, {Timeslot: 3, Channel: 1}, {Timeslot: 6, Channel: 1}}, cells)
	tr.sent()
	assert.Equal(t, 22, e.FreeUplinkTimeslots)
	assert.Equal(t, 0, e.Backlog.Pending())

	// No two cells of the same child are adjacent.
	tr.close(relayAddr)
	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 2), relayAddr)
	cells = grantOf(t, tr.last())
	assert.Equal(t, []sixp.Cell{{Timeslot: 8, Channel: 1}, {Timeslot: 11, Channel: 1}}, cells)
}

func TestAddUplinksCapped(t *testing.T) {
	e, tr := newEngine(t, coordAddr, true, func(p *Params) { p.MaxLinks = 2 })
	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 10), relayAddr)
	assert.Len(t, grantOf(t, tr.last()), 2)
	// A coordinator never owes cells.
	assert.Equal(t, 0, e.Backlog.Pending())
}

func TestAddUplinksBeforeGeneration(t *testing.T) {
	e, tr := newEngine(t, relayAddr, false, nil)
	e.SetTimeSource(coordAddr, 1)
	e.ChildrenChannel = 2
	require.False(t, e.GenerationSatisfied)
	require.Equal(t, 1, e.RequiredSlots)

	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 4), childAddr)
	assert.Empty(t, grantOf(t, tr.last()))
	owed, _ := e.Backlog.Find(childAddr)
	assert.Equal(t, 4, owed)
	assert.Equal(t, 5, e.RequiredSlots)
}

func TestAddUplinksRefused(t *testing.T) {
	e, tr := newEngine(t, relayAddr, false, nil)
	e.SetTimeSource(coordAddr, 1)

	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 1), childAddr)
	assert.Equal(t, sixp.RcErr, tr.last().code)

	// A zero count is dropped without an answer.
	e.ChildrenChannel = 2
	e.Input(sixp.TypeRequest, sixp.CmdAddUplinks, sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 0), childAddr)
	assert.Len(t, tr.outputs, 1)
}

func TestAddUplinksResponse(t *testing.T) {
	e, tr := newEngine(t, childAddr, false, nil)
	e.SetTimeSource(relayAddr, 2)
	sf := e.sched.Slotframe(0)

	require.NoError(t, e.SendAddUplink(relayAddr, 2))
	cells := []sixp.Cell{{Timeslot: 2, Channel: 2}, {Timeslot: 8, Channel: 2}}
	e.Input(sixp.TypeResponse, sixp.RcSuccess, sixp.NewLinkCellsResponse(cells), relayAddr)

	assert.NotNil(t, e.sched.LinkByTimeslot(sf, 2, 2))
	assert.NotNil(t, e.sched.LinkByTimeslot(sf, 8, 2))
	assert.True(t, e.GenerationSatisfied)
	assert.Equal(t, 1, e.GenerationSlots)
	assert.Equal(t, 0, e.RequiredSlots)
	assert.Equal(t, 1, e.FreeUplinkTimeslots)
	assert.True(t, e.CheckAskUplink)

	tr.close(relayAddr)
	require.NoError(t, e.SendAddUplink(relayAddr, 1))
	e.Input(sixp.TypeResponse, sixp.RcSuccess, sixp.NewLinkCellsResponse(nil), relayAddr)
	assert.False(t, e.CheckAskUplink)
	assert.ErrorIs(t, e.SendAddUplink(relayAddr, 0), ErrNoCells)
}

func TestAddDownlinksRequest(t *testing.T) {
	e, tr := newEngine(t, childAddr, false, nil)
	e.SetTimeSource(relayAddr, 2)
	e.CheckAskUplink = false
	sf := e.sched.Slotframe(0)

	cells := []sixp.Cell{{Timeslot: 12, Channel: 2}}
	e.Input(sixp.TypeRequest, sixp.CmdAddDownlinks, sixp.NewLinkCellsRequest(sixp.CmdAddDownlinks, cells), relayAddr)
	assert.Equal(t, sixp.RcSuccess, tr.last().code)
	assert.Empty(t, tr.last().body)
	assert.True(t, e.CheckAskUplink)
	l := e.sched.LinkByTimeslot(sf, 12, 2)
	require.NotNil(t, l)
	assert.True(t, l.IsUplink())
	assert.Equal(t, relayAddr, l.Addr)
}

func TestFindLastUplinks(t *testing.T) {
	e, _, sf := newRelay(t)
	e.ChildrenChannel = 2
	for _, ts := range []uint16{2, 8, 12} {
		_, err := e.sched.AddLink(sf, schedule.OptionRX, schedule.KindNormal, childAddr, ts, 2)
		require.NoError(t, err)
	}
	assert.Equal(t, []sixp.Cell{{Timeslot: 12, Channel: 2}, {Timeslot: 8, Channel: 2}}, e.FindLastUplinks(childAddr, 2))
	assert.Empty(t, e.FindLastUplinks(lladdr.FromNodeID(9), 2))

	ts, err := e.FindFreeAdvSlot(2)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), ts)
}
