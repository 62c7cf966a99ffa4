/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

// Every builder sizes its body exactly for the fields it writes, so a setter can only fail when a builder is
// handed a code that does not carry the field.
func mustSet(err error) {
	if err != nil {
		panic("sixp: " + err.Error())
	}
}

// NewLinkCountRequest builds the body of an ADD_UPLINKS or ASK_ADV_LINK request asking for n cells.
func NewLinkCountRequest(code Code, opts CellOptions, n uint32) []byte {
	body := make([]byte, metadataSize+cellOptionsSize+numCellsSize+linkCountSize)
	mustSet(SetCellOptions(TypeRequest, code, body, opts))
	mustSet(SetLinkCount(TypeRequest, code, body, n))
	return body
}

// NewChannelRequest builds the body of an ASK_CHANNEL request.
func NewChannelRequest() []byte {
	return make([]byte, metadataSize+channelSize)
}

// NewLinkCellsRequest builds the body of an ADD_DOWNLINKS, DELETE_UPLINK or DELETE_DOWNLINK request.
func NewLinkCellsRequest(code Code, cells []Cell) []byte {
	body := make([]byte, requestCellListOffset+len(cells)*CellSize)
	mustSet(SetLinkCount(TypeRequest, code, body, uint32(len(cells))))
	mustSet(SetRequestCellList(TypeRequest, code, body, cells))
	return body
}

// NewLinkCellsResponse builds a SUCCESS response body holding a link count followed by the cells.
func NewLinkCellsResponse(cells []Cell) []byte {
	body := make([]byte, linkCountSize+len(cells)*CellSize)
	mustSet(SetLinkCount(TypeResponse, RcSuccess, body, uint32(len(cells))))
	mustSet(SetGrantCellList(TypeResponse, RcSuccess, body, cells))
	return body
}

// NewChannelResponse builds a SUCCESS response body carrying a channel offset.
func NewChannelResponse(ch uint16) []byte {
	body := make([]byte, channelSize)
	mustSet(SetChannel(TypeResponse, RcSuccess, body, ch))
	return body
}

// NewCountRequest builds the body of a standard COUNT request.
func NewCountRequest(opts CellOptions) []byte {
	body := make([]byte, metadataSize+cellOptionsSize)
	mustSet(SetCellOptions(TypeRequest, CmdCount, body, opts))
	return body
}

// NewCountResponse builds a SUCCESS response to COUNT.
func NewCountResponse(total uint16) []byte {
	body := make([]byte, totalNumCellsSize)
	mustSet(SetTotalNumCells(TypeResponse, RcSuccess, body, total))
	return body
}

// NewListRequest builds the body of a standard LIST request.
func NewListRequest(opts CellOptions, offset uint16, maxNumCells uint16) []byte {
	body := make([]byte, metadataSize+cellOptionsSize+reservedSize+offsetSize+maxNumCellsSize)
	mustSet(SetCellOptions(TypeRequest, CmdList, body, opts))
	mustSet(SetOffset(TypeRequest, CmdList, body, offset))
	mustSet(SetMaxNumCells(TypeRequest, CmdList, body, maxNumCells))
	return body
}

// NewClearRequest builds the body of a standard CLEAR request.
func NewClearRequest() []byte {
	return make([]byte, metadataSize)
}

// NewSignalRequest builds the body of a standard SIGNAL request.
func NewSignalRequest(payload []byte) []byte {
	body := make([]byte, metadataSize+len(payload))
	mustSet(SetPayload(TypeRequest, CmdSignal, body, payload))
	return body
}
