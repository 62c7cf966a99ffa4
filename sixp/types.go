/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

import "strconv"

// Version is the 6P protocol version spoken by this implementation.
const Version = 0

// HeaderSize is the size of the 6P header (version/type, code, SFID, sequence number).
const HeaderSize = 4

// Type is the 6P message type.
type Type uint8

// 6P message types.
const (
	TypeRequest      Type = 0x00
	TypeResponse     Type = 0x01
	TypeConfirmation Type = 0x02
)

func (t Type) String() string {
	switch t {
	case TypeRequest:
		return "REQUEST"
	case TypeResponse:
		return "RESPONSE"
	case TypeConfirmation:
		return "CONFIRMATION"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Code is either a command (in requests) or a return code (in responses and confirmations).
type Code uint8

// Standard 6P commands.
const (
	CmdAdd      Code = 0x01
	CmdDelete   Code = 0x02
	CmdRelocate Code = 0x03
	CmdCount    Code = 0x04
	CmdList     Code = 0x05
	CmdSignal   Code = 0x06
	CmdClear    Code = 0x07
)

// GT-TSCH commands.
const (
	CmdAddUplinks     Code = 0x08
	CmdAddDownlinks   Code = 0x09
	CmdAskChannel     Code = 0x0a
	CmdDeleteUplink   Code = 0x0b
	CmdDeleteDownlink Code = 0x0c
	CmdAskAdvLink     Code = 0x0d
)

// 6P return codes.
const (
	RcSuccess     Code = 0x00
	RcEOL         Code = 0x01
	RcErr         Code = 0x02
	RcReset       Code = 0x03
	RcErrVersion  Code = 0x04
	RcErrSFID     Code = 0x05
	RcErrSeqNum   Code = 0x06
	RcErrCellList Code = 0x07
	RcErrBusy     Code = 0x08
	RcErrLocked   Code = 0x09
)

var commandNames = map[Code]string{
	CmdAdd:            "ADD",
	CmdDelete:         "DELETE",
	CmdRelocate:       "RELOCATE",
	CmdCount:          "COUNT",
	CmdList:           "LIST",
	CmdSignal:         "SIGNAL",
	CmdClear:          "CLEAR",
	CmdAddUplinks:     "ADD_UPLINKS",
	CmdAddDownlinks:   "ADD_DOWNLINKS",
	CmdAskChannel:     "ASK_CHANNEL",
	CmdDeleteUplink:   "DELETE_UPLINK",
	CmdDeleteDownlink: "DELETE_DOWNLINK",
	CmdAskAdvLink:     "ASK_ADV_LINK",
}

var returnCodeNames = map[Code]string{
	RcSuccess:     "SUCCESS",
	RcEOL:         "EOL",
	RcErr:         "ERR",
	RcReset:       "RESET",
	RcErrVersion:  "ERR_VERSION",
	RcErrSFID:     "ERR_SFID",
	RcErrSeqNum:   "ERR_SEQNUM",
	RcErrCellList: "ERR_CELLLIST",
	RcErrBusy:     "ERR_BUSY",
	RcErrLocked:   "ERR_LOCKED",
}

// CodeString returns the name of a code, which depends on the message type it appears in.
func CodeString(t Type, c Code) string {
	names := returnCodeNames
	if t == TypeRequest {
		names = commandNames
	}
	if name, ok := names[c]; ok {
		return name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// IsCommand returns whether c is a known command.
func IsCommand(c Code) bool {
	_, ok := commandNames[c]
	return ok
}

// IsError returns whether a return code reports a failure.
func IsError(c Code) bool {
	return c != RcSuccess && c != RcEOL
}

// CellOptions is the 6P CellOptions bitmap.
type CellOptions uint8

// CellOptions bits.
const (
	CellOptionTX     CellOptions = 0x01
	CellOptionRX     CellOptions = 0x02
	CellOptionShared CellOptions = 0x04
)
