/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

import (
	"encoding/binary"
	"strconv"
)

// CellSize is the encoded size of a cell.
const CellSize = 4

// Cell is a (timeslot, channel offset) pair as carried in 6P cell lists.
type Cell struct {
	Timeslot uint16
	Channel  uint16
}

func (c Cell) String() string {
	return "(" + strconv.Itoa(int(c.Timeslot)) + "," + strconv.Itoa(int(c.Channel)) + ")"
}

// PutCell writes a cell into buf, which must hold at least CellSize bytes.
func PutCell(buf []byte, c Cell) {
	binary.LittleEndian.PutUint16(buf[0:2], c.Timeslot)
	binary.LittleEndian.PutUint16(buf[2:4], c.Channel)
}

// ReadCell reads a cell from the start of buf.
func ReadCell(buf []byte) (Cell, error) {
	if len(buf) < CellSize {
		return Cell{}, ErrBodyTooShort
	}
	return Cell{
		Timeslot: binary.LittleEndian.Uint16(buf[0:2]),
		Channel:  binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}

// EncodeCells encodes a list of cells.
func EncodeCells(cells []Cell) []byte {
	wire := make([]byte, len(cells)*CellSize)
	for i, c := range cells {
		PutCell(wire[i*CellSize:], c)
	}
	return wire
}

// DecodeCells decodes a cell list, whose length must be a multiple of CellSize.
func DecodeCells(wire []byte) ([]Cell, error) {
	if len(wire)%CellSize != 0 {
		return nil, ErrCellListLength
	}
	cells := make([]Cell, 0, len(wire)/CellSize)
	for off := 0; off < len(wire); off += CellSize {
		c, _ := ReadCell(wire[off:])
		cells = append(cells, c)
	}
	return cells, nil
}
