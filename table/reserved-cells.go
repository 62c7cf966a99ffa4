/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import "github.com/gttsch/gtsf/sixp"

// ReservedCells holds cells promised in an outstanding response but not yet installed.
type ReservedCells struct {
	cells    []sixp.Cell
	capacity int
}

// NewReservedCells creates a list holding at most capacity cells.
func NewReservedCells(capacity int) *ReservedCells {
	return &ReservedCells{
		cells:    make([]sixp.Cell, 0, capacity),
		capacity: capacity,
	}
}

// IsReserved returns whether timeslot ts is held by a reservation on any channel.
func (r *ReservedCells) IsReserved(ts uint16) bool {
	for _, c := range r.cells {
		if c.Timeslot == ts {
			return true
		}
	}
	return false
}

// Reserve adds a cell to the list.
func (r *ReservedCells) Reserve(c sixp.Cell) error {
	if len(r.cells) >= r.capacity {
		return ErrCapacity
	}
	r.cells = append(r.cells, c)
	return nil
}

// Release removes a cell from the list and returns whether it was present.
func (r *ReservedCells) Release(c sixp.Cell) bool {
	for i := range r.cells {
		if r.cells[i] == c {
			r.cells = append(r.cells[:i], r.cells[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of reserved cells.
func (r *ReservedCells) Len() int {
	return len(r.cells)
}
