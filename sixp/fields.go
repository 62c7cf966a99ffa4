/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

import "encoding/binary"

// Field accessors operate on a message body (the bytes following the header). Getters locate the field from
// the message type and code and fail if the message does not carry it or the body is too short. Setters
// write into an already-sized body.

func sliceAt(body []byte, off int, size int) ([]byte, error) {
	if off < 0 || off+size > len(body) {
		return nil, ErrBodyTooShort
	}
	return body[off : off+size], nil
}

func cellsFrom(body []byte, off int) ([]Cell, error) {
	if off > len(body) {
		return nil, ErrBodyTooShort
	}
	return DecodeCells(body[off:])
}

func putCellsAt(body []byte, off int, cells []Cell) error {
	if off+len(cells)*CellSize > len(body) {
		return ErrBodyTooShort
	}
	for i, c := range cells {
		PutCell(body[off+i*CellSize:], c)
	}
	return nil
}

func getUint16(off int, err error, body []byte) (uint16, error) {
	if err != nil {
		return 0, err
	}
	b, err := sliceAt(body, off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func setUint16(off int, err error, body []byte, v uint16) error {
	if err != nil {
		return err
	}
	b, err := sliceAt(body, off, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, v)
	return nil
}

func getUint8(off int, err error, body []byte) (uint8, error) {
	if err != nil {
		return 0, err
	}
	b, err := sliceAt(body, off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func setUint8(off int, err error, body []byte, v uint8) error {
	if err != nil {
		return err
	}
	b, err := sliceAt(body, off, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

///////////////////
// Standard fields
///////////////////

// GetMetadata returns the Metadata field of a request.
func GetMetadata(t Type, code Code, body []byte) (uint16, error) {
	off, err := metadataOffset(t, code)
	return getUint16(off, err, body)
}

// SetMetadata sets the Metadata field of a request.
func SetMetadata(t Type, code Code, body []byte, metadata uint16) error {
	off, err := metadataOffset(t, code)
	return setUint16(off, err, body, metadata)
}

// GetCellOptions returns the CellOptions field.
func GetCellOptions(t Type, code Code, body []byte) (CellOptions, error) {
	off, err := cellOptionsOffset(t, code)
	v, err := getUint8(off, err, body)
	return CellOptions(v), err
}

// SetCellOptions sets the CellOptions field.
func SetCellOptions(t Type, code Code, body []byte, opts CellOptions) error {
	off, err := cellOptionsOffset(t, code)
	return setUint8(off, err, body, uint8(opts))
}

// GetNumCells returns the NumCells field.
func GetNumCells(t Type, code Code, body []byte) (uint8, error) {
	off, err := numCellsOffset(t, code)
	return getUint8(off, err, body)
}

// SetNumCells sets the NumCells field.
func SetNumCells(t Type, code Code, body []byte, n uint8) error {
	off, err := numCellsOffset(t, code)
	return setUint8(off, err, body, n)
}

// GetReserved returns the Reserved field of a LIST request.
func GetReserved(t Type, code Code, body []byte) (uint8, error) {
	off, err := reservedOffset(t, code)
	return getUint8(off, err, body)
}

// SetReserved sets the Reserved field of a LIST request.
func SetReserved(t Type, code Code, body []byte, v uint8) error {
	off, err := reservedOffset(t, code)
	return setUint8(off, err, body, v)
}

// GetOffset returns the Offset field of a LIST request.
func GetOffset(t Type, code Code, body []byte) (uint16, error) {
	off, err := offsetOffset(t, code)
	return getUint16(off, err, body)
}

// SetOffset sets the Offset field of a LIST request.
func SetOffset(t Type, code Code, body []byte, v uint16) error {
	off, err := offsetOffset(t, code)
	return setUint16(off, err, body, v)
}

// GetMaxNumCells returns the MaxNumCells field of a LIST request.
func GetMaxNumCells(t Type, code Code, body []byte) (uint16, error) {
	off, err := maxNumCellsOffset(t, code)
	return getUint16(off, err, body)
}

// SetMaxNumCells sets the MaxNumCells field of a LIST request.
func SetMaxNumCells(t Type, code Code, body []byte, v uint16) error {
	off, err := maxNumCellsOffset(t, code)
	return setUint16(off, err, body, v)
}

// GetCellList returns the CellList of an ADD/DELETE request or of a SUCCESS/EOL response.
func GetCellList(t Type, code Code, body []byte) ([]Cell, error) {
	off, err := cellListOffset(t, code)
	if err != nil {
		return nil, err
	}
	return cellsFrom(body, off)
}

// SetCellList writes cells at the CellList position.
func SetCellList(t Type, code Code, body []byte, cells []Cell) error {
	off, err := cellListOffset(t, code)
	if err != nil {
		return err
	}
	return putCellsAt(body, off, cells)
}

// GetRelCellList returns the relocation cell list of a RELOCATE request. Its length is given by NumCells.
func GetRelCellList(t Type, code Code, body []byte) ([]Cell, error) {
	off, err := relCellListOffset(t, code)
	if err != nil {
		return nil, err
	}
	numCells, err := GetNumCells(t, code, body)
	if err != nil {
		return nil, err
	}
	wire, err := sliceAt(body, off, int(numCells)*CellSize)
	if err != nil {
		return nil, err
	}
	return DecodeCells(wire)
}

// SetRelCellList writes the relocation cell list of a RELOCATE request.
func SetRelCellList(t Type, code Code, body []byte, cells []Cell) error {
	off, err := relCellListOffset(t, code)
	if err != nil {
		return err
	}
	return putCellsAt(body, off, cells)
}

// GetCandCellList returns the candidate cell list of a RELOCATE request, which runs to the end of the body.
func GetCandCellList(t Type, code Code, body []byte) ([]Cell, error) {
	off, err := candCellListOffset(t, code, body)
	if err != nil {
		return nil, err
	}
	return cellsFrom(body, off)
}

// SetCandCellList writes the candidate cell list of a RELOCATE request. NumCells must already be set.
func SetCandCellList(t Type, code Code, body []byte, cells []Cell) error {
	off, err := candCellListOffset(t, code, body)
	if err != nil {
		return err
	}
	return putCellsAt(body, off, cells)
}

// GetTotalNumCells returns the TotalNumCells field of a SUCCESS response to COUNT.
func GetTotalNumCells(t Type, code Code, body []byte) (uint16, error) {
	off, err := totalNumCellsOffset(t, code)
	return getUint16(off, err, body)
}

// SetTotalNumCells sets the TotalNumCells field.
func SetTotalNumCells(t Type, code Code, body []byte, n uint16) error {
	off, err := totalNumCellsOffset(t, code)
	return setUint16(off, err, body, n)
}

// GetPayload returns the payload of a SIGNAL request or a SUCCESS response.
func GetPayload(t Type, code Code, body []byte) ([]byte, error) {
	off, err := payloadOffset(t, code)
	if err != nil {
		return nil, err
	}
	if off > len(body) {
		return nil, ErrBodyTooShort
	}
	return body[off:], nil
}

// SetPayload copies payload into the payload position.
func SetPayload(t Type, code Code, body []byte, payload []byte) error {
	off, err := payloadOffset(t, code)
	if err != nil {
		return err
	}
	dst, err := sliceAt(body, off, len(payload))
	if err != nil {
		return err
	}
	copy(dst, payload)
	return nil
}

/////////////////////
// GT-TSCH fields
/////////////////////

// GetChannel returns the channel offset carried by ASK_CHANNEL requests and their responses.
func GetChannel(t Type, code Code, body []byte) (uint16, error) {
	off, err := channelOffset(t, code)
	return getUint16(off, err, body)
}

// SetChannel sets the channel offset field.
func SetChannel(t Type, code Code, body []byte, ch uint16) error {
	off, err := channelOffset(t, code)
	return setUint16(off, err, body, ch)
}

// GetLinkCount returns the 32-bit link count of a GT-TSCH request or of a SUCCESS response.
func GetLinkCount(t Type, code Code, body []byte) (uint32, error) {
	off, err := linkCountOffset(t, code)
	if err != nil {
		return 0, err
	}
	b, err := sliceAt(body, off, linkCountSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// SetLinkCount sets the 32-bit link count.
func SetLinkCount(t Type, code Code, body []byte, n uint32) error {
	off, err := linkCountOffset(t, code)
	if err != nil {
		return err
	}
	b, err := sliceAt(body, off, linkCountSize)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, n)
	return nil
}

// GetGrantCellList returns the cells following the link count in an ADD_UPLINKS or ASK_ADV_LINK response.
func GetGrantCellList(t Type, code Code, body []byte) ([]Cell, error) {
	off, err := grantCellListOffset(t, code)
	if err != nil {
		return nil, err
	}
	return cellsFrom(body, off)
}

// SetGrantCellList writes the granted cells after the link count.
func SetGrantCellList(t Type, code Code, body []byte, cells []Cell) error {
	off, err := grantCellListOffset(t, code)
	if err != nil {
		return err
	}
	return putCellsAt(body, off, cells)
}

// GetRequestCellList returns the cells carried by an ADD_DOWNLINKS, DELETE_UPLINK or DELETE_DOWNLINK request.
func GetRequestCellList(t Type, code Code, body []byte) ([]Cell, error) {
	off, err := requestCellListOffsetFor(t, code)
	if err != nil {
		return nil, err
	}
	return cellsFrom(body, off)
}

// SetRequestCellList writes the cells of an ADD_DOWNLINKS, DELETE_UPLINK or DELETE_DOWNLINK request.
func SetRequestCellList(t Type, code Code, body []byte, cells []Cell) error {
	off, err := requestCellListOffsetFor(t, code)
	if err != nil {
		return err
	}
	return putCellsAt(body, off, cells)
}
