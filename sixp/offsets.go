/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

// Field sizes.
const (
	metadataSize      = 2
	cellOptionsSize   = 1
	numCellsSize      = 1
	reservedSize      = 1
	offsetSize        = 2
	maxNumCellsSize   = 2
	totalNumCellsSize = 2
	channelSize       = 2
	linkCountSize     = 4
)

// requestCellListOffset is where GT-TSCH requests carrying cells start their list, after metadata, options, num cells and the link count.
const requestCellListOffset = 8

func isResponseOrConfirmation(t Type) bool {
	return t == TypeResponse || t == TypeConfirmation
}

func metadataOffset(t Type, code Code) (int, error) {
	if t == TypeRequest {
		return 0, nil
	}
	return 0, ErrNoSuchField
}

func cellOptionsOffset(t Type, code Code) (int, error) {
	if t == TypeRequest {
		switch code {
		case CmdAdd, CmdDelete, CmdRelocate, CmdCount, CmdList, CmdAddUplinks, CmdAskAdvLink:
			return metadataSize, nil
		}
	}
	return 0, ErrNoSuchField
}

func numCellsOffset(t Type, code Code) (int, error) {
	if t == TypeRequest {
		switch code {
		case CmdAdd, CmdDelete, CmdRelocate, CmdAddUplinks, CmdAskAdvLink:
			return metadataSize + cellOptionsSize, nil
		}
	}
	return 0, ErrNoSuchField
}

func reservedOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && code == CmdList {
		return metadataSize + cellOptionsSize, nil
	}
	return 0, ErrNoSuchField
}

func offsetOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && code == CmdList {
		return metadataSize + cellOptionsSize + reservedSize, nil
	}
	return 0, ErrNoSuchField
}

func maxNumCellsOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && code == CmdList {
		return metadataSize + cellOptionsSize + reservedSize + offsetSize, nil
	}
	return 0, ErrNoSuchField
}

func cellListOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && (code == CmdAdd || code == CmdDelete) {
		return metadataSize + cellOptionsSize + numCellsSize, nil
	}
	if isResponseOrConfirmation(t) && (code == RcSuccess || code == RcEOL) {
		return 0, nil
	}
	return 0, ErrNoSuchField
}

func relCellListOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && code == CmdRelocate {
		return metadataSize + cellOptionsSize + numCellsSize, nil
	}
	return 0, ErrNoSuchField
}

func candCellListOffset(t Type, code Code, body []byte) (int, error) {
	if t != TypeRequest || code != CmdRelocate {
		return 0, ErrNoSuchField
	}
	numCells, err := GetNumCells(t, code, body)
	if err != nil {
		return 0, err
	}
	return metadataSize + cellOptionsSize + numCellsSize + int(numCells)*CellSize, nil
}

func totalNumCellsOffset(t Type, code Code) (int, error) {
	if t == TypeResponse && code == RcSuccess {
		return 0, nil
	}
	return 0, ErrNoSuchField
}

func payloadOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && code == CmdSignal {
		return metadataSize, nil
	}
	if isResponseOrConfirmation(t) && code == RcSuccess {
		return 0, nil
	}
	return 0, ErrNoSuchField
}

func channelOffset(t Type, code Code) (int, error) {
	if t == TypeRequest && code == CmdAskChannel {
		return metadataSize, nil
	}
	if isResponseOrConfirmation(t) && code == RcSuccess {
		return 0, nil
	}
	return 0, ErrNoSuchField
}

func linkCountOffset(t Type, code Code) (int, error) {
	if t == TypeRequest {
		switch code {
		case CmdAddUplinks, CmdDeleteUplink, CmdDeleteDownlink, CmdAskAdvLink:
			return metadataSize + cellOptionsSize + numCellsSize, nil
		case CmdAddDownlinks:
			return 4, nil
		}
		return 0, ErrNoSuchField
	}
	if isResponseOrConfirmation(t) && code == RcSuccess {
		return 0, nil
	}
	return 0, ErrNoSuchField
}

func grantCellListOffset(t Type, code Code) (int, error) {
	if isResponseOrConfirmation(t) && (code == RcSuccess || code == RcEOL) {
		return linkCountSize, nil
	}
	return 0, ErrNoSuchField
}

func requestCellListOffsetFor(t Type, code Code) (int, error) {
	if t == TypeRequest {
		switch code {
		case CmdAddDownlinks, CmdDeleteUplink, CmdDeleteDownlink:
			return requestCellListOffset, nil
		}
	}
	return 0, ErrNoSuchField
}
