/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp_test

import (
	"testing"

	"github.com/gttsch/gtsf/sixp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUplinksRoundTrip(t *testing.T) {
	// Request for 3 links.
	body := sixp.NewLinkCountRequest(sixp.CmdAddUplinks, sixp.CellOptionTX, 3)
	assert.Len(t, body, 8)
	wire, err := sixp.Create(sixp.TypeRequest, sixp.CmdAddUplinks, 0, 1, body)
	require.NoError(t, err)
	p, err := sixp.Parse(wire)
	require.NoError(t, err)
	requested, err := sixp.GetLinkCount(p.Type, p.Code, p.Body)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), requested)
	opts, err := sixp.GetCellOptions(p.Type, p.Code, p.Body)
	assert.NoError(t, err)
	assert.Equal(t, sixp.CellOptionTX, opts)

	// Response carrying two cells.
	granted := []sixp.Cell{{Timeslot: 3, Channel: 2}, {Timeslot: 9, Channel: 2}}
	body = sixp.NewLinkCellsResponse(granted)
	wire, err = sixp.Create(sixp.TypeResponse, sixp.RcSuccess, 0, 1, body)
	require.NoError(t, err)
	p, err = sixp.Parse(wire)
	require.NoError(t, err)
	count, err := sixp.GetLinkCount(p.Type, p.Code, p.Body)
	assert.NoError(t, err)
	assert.Equal(t, uint32(2), count)
	assert.Equal(t, 8, len(p.Body)-4)
	cells, err := sixp.GetGrantCellList(p.Type, p.Code, p.Body)
	assert.NoError(t, err)
	assert.Equal(t, granted, cells)
}

func TestCellWireFormat(t *testing.T) {
	wire := sixp.EncodeCells([]sixp.Cell{{Timeslot: 0x0102, Channel: 0x0304}})
	assert.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, wire)

	_, err := sixp.DecodeCells([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, sixp.ErrCellListLength)
	_, err = sixp.ReadCell([]byte{0x01})
	assert.ErrorIs(t, err, sixp.ErrBodyTooShort)
}

func TestLinkCellsRequest(t *testing.T) {
	cells := []sixp.Cell{{Timeslot: 4, Channel: 1}, {Timeslot: 12, Channel: 1}, {Timeslot: 21, Channel: 1}}
	for _, code := range []sixp.Code{sixp.CmdAddDownlinks, sixp.CmdDeleteUplink, sixp.CmdDeleteDownlink} {
		body := sixp.NewLinkCellsRequest(code, cells)
		assert.Len(t, body, 8+12)
		n, err := sixp.GetLinkCount(sixp.TypeRequest, code, body)
		assert.NoError(t, err)
		assert.Equal(t, uint32(3), n)
		got, err := sixp.GetRequestCellList(sixp.TypeRequest, code, body)
		assert.NoError(t, err)
		assert.Equal(t, cells, got)
	}

	_, err := sixp.GetRequestCellList(sixp.TypeRequest, sixp.CmdAddUplinks, make([]byte, 8))
	assert.ErrorIs(t, err, sixp.ErrNoSuchField)
	_, err = sixp.GetRequestCellList(sixp.TypeRequest, sixp.CmdAddDownlinks, make([]byte, 10))
	assert.ErrorIs(t, err, sixp.ErrCellListLength)
	_, err = sixp.GetRequestCellList(sixp.TypeRequest, sixp.CmdAddDownlinks, make([]byte, 4))
	assert.ErrorIs(t, err, sixp.ErrBodyTooShort)
}

func TestChannelFields(t *testing.T) {
	body := sixp.NewChannelRequest()
	assert.Len(t, body, 4)
	ch, err := sixp.GetChannel(sixp.TypeRequest, sixp.CmdAskChannel, body)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0), ch)

	body = sixp.NewChannelResponse(5)
	ch, err = sixp.GetChannel(sixp.TypeResponse, sixp.RcSuccess, body)
	assert.NoError(t, err)
	assert.Equal(t, uint16(5), ch)

	_, err = sixp.GetChannel(sixp.TypeResponse, sixp.RcSuccess, []byte{0x05})
	assert.ErrorIs(t, err, sixp.ErrBodyTooShort)
	_, err = sixp.GetChannel(sixp.TypeRequest, sixp.CmdAdd, body)
	assert.ErrorIs(t, err, sixp.ErrNoSuchField)
}

func TestListFields(t *testing.T) {
	body := sixp.NewListRequest(sixp.CellOptionRX, 3, 10)
	opts, err := sixp.GetCellOptions(sixp.TypeRequest, sixp.CmdList, body)
	assert.NoError(t, err)
	assert.Equal(t, sixp.CellOptionRX, opts)
	reserved, err := sixp.GetReserved(sixp.TypeRequest, sixp.CmdList, body)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), reserved)
	off, err := sixp.GetOffset(sixp.TypeRequest, sixp.CmdList, body)
	assert.NoError(t, err)
	assert.Equal(t, uint16(3), off)
	max, err := sixp.GetMaxNumCells(sixp.TypeRequest, sixp.CmdList, body)
	assert.NoError(t, err)
	assert.Equal(t, uint16(10), max)

	_, err = sixp.GetNumCells(sixp.TypeRequest, sixp.CmdList, body)
	assert.ErrorIs(t, err, sixp.ErrNoSuchField)
	_, err = sixp.GetOffset(sixp.TypeRequest, sixp.CmdCount, body)
	assert.ErrorIs(t, err, sixp.ErrNoSuchField)
}

func TestRelocateFields(t *testing.T) {
	rel := []sixp.Cell{{Timeslot: 1, Channel: 2}}
	cand := []sixp.Cell{{Timeslot: 6, Channel: 2}, {Timeslot: 7, Channel: 2}}
	body := make([]byte, 4+4+8)
	require.NoError(t, sixp.SetCellOptions(sixp.TypeRequest, sixp.CmdRelocate, body, sixp.CellOptionTX))
	require.NoError(t, sixp.SetNumCells(sixp.TypeRequest, sixp.CmdRelocate, body, 1))
	require.NoError(t, sixp.SetRelCellList(sixp.TypeRequest, sixp.CmdRelocate, body, rel))
	require.NoError(t, sixp.SetCandCellList(sixp.TypeRequest, sixp.CmdRelocate, body, cand))

	gotRel, err := sixp.GetRelCellList(sixp.TypeRequest, sixp.CmdRelocate, body)
	assert.NoError(t, err)
	assert.Equal(t, rel, gotRel)
	gotCand, err := sixp.GetCandCellList(sixp.TypeRequest, sixp.CmdRelocate, body)
	assert.NoError(t, err)
	assert.Equal(t, cand, gotCand)

	// NumCells larger than the body.
	require.NoError(t, sixp.SetNumCells(sixp.TypeRequest, sixp.CmdRelocate, body, 9))
	_, err = sixp.GetRelCellList(sixp.TypeRequest, sixp.CmdRelocate, body)
	assert.ErrorIs(t, err, sixp.ErrBodyTooShort)
	_, err = sixp.GetCandCellList(sixp.TypeRequest, sixp.CmdRelocate, body)
	assert.ErrorIs(t, err, sixp.ErrBodyTooShort)
}

func TestStandardFields(t *testing.T) {
	body := make([]byte, 4+8)
	cells := []sixp.Cell{{Timeslot: 11, Channel: 3}, {Timeslot: 14, Channel: 3}}
	require.NoError(t, sixp.SetMetadata(sixp.TypeRequest, sixp.CmdAdd, body, 0xbeef))
	require.NoError(t, sixp.SetNumCells(sixp.TypeRequest, sixp.CmdAdd, body, 2))
	require.NoError(t, sixp.SetCellList(sixp.TypeRequest, sixp.CmdAdd, body, cells))
	md, err := sixp.GetMetadata(sixp.TypeRequest, sixp.CmdAdd, body)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), md)
	got, err := sixp.GetCellList(sixp.TypeRequest, sixp.CmdAdd, body)
	assert.NoError(t, err)
	assert.Equal(t, cells, got)
	_, err = sixp.GetMetadata(sixp.TypeResponse, sixp.RcSuccess, body)
	assert.ErrorIs(t, err, sixp.ErrNoSuchField)

	got, err = sixp.GetCellList(sixp.TypeResponse, sixp.RcEOL, sixp.EncodeCells(cells))
	assert.NoError(t, err)
	assert.Equal(t, cells, got)

	body = sixp.NewCountRequest(sixp.CellOptionTX | sixp.CellOptionShared)
	assert.Len(t, body, 3)
	opts, err := sixp.GetCellOptions(sixp.TypeRequest, sixp.CmdCount, body)
	assert.NoError(t, err)
	assert.Equal(t, sixp.CellOptionTX|sixp.CellOptionShared, opts)

	body = sixp.NewCountResponse(17)
	total, err := sixp.GetTotalNumCells(sixp.TypeResponse, sixp.RcSuccess, body)
	assert.NoError(t, err)
	assert.Equal(t, uint16(17), total)
	_, err = sixp.GetTotalNumCells(sixp.TypeConfirmation, sixp.RcSuccess, body)
	assert.ErrorIs(t, err, sixp.ErrNoSuchField)

	body = sixp.NewSignalRequest([]byte("ping"))
	payload, err := sixp.GetPayload(sixp.TypeRequest, sixp.CmdSignal, body)
	assert.NoError(t, err)
	assert.Equal(t, []byte("ping"), payload)
	assert.Len(t, sixp.NewClearRequest(), 2)

	assert.ErrorIs(t, sixp.SetChannel(sixp.TypeResponse, sixp.RcSuccess, make([]byte, 1), 3), sixp.ErrBodyTooShort)
	assert.ErrorIs(t, sixp.SetCellList(sixp.TypeRequest, sixp.CmdAdd, make([]byte, 6), cells), sixp.ErrBodyTooShort)
}

func TestBodyBuilders(t *testing.T) {
	assert.NotPanics(t, func() {
		sixp.NewLinkCountRequest(sixp.CmdAskAdvLink, sixp.CellOptionTX|sixp.CellOptionRX, 2)
		sixp.NewLinkCellsResponse(nil)
		sixp.NewListRequest(sixp.CellOptionRX, 4, 10)
		sixp.NewSignalRequest(nil)
	})
	// COUNT carries no link count and CLEAR no request cell list.
	assert.Panics(t, func() { sixp.NewLinkCountRequest(sixp.CmdCount, sixp.CellOptionTX, 1) })
	assert.Panics(t, func() { sixp.NewLinkCellsRequest(sixp.CmdClear, []sixp.Cell{{Timeslot: 1, Channel: 1}}) })
}
