/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"math"

	"github.com/gttsch/gtsf/core"
)

// SendBackCapacity is the maximum number of children with owed cells.
var SendBackCapacity = 8

// TwoHopCacheCapacity is the maximum number of children with an assigned channel.
var TwoHopCacheCapacity = 8

// ReservedCellsCapacity is the maximum number of cells promised in outstanding responses.
var ReservedCellsCapacity = 32

// Configure configures the table sizes.
func Configure() {
	var err error
	capacity := func(key string, def int) int {
		v, e := core.GetConfigIntRange(key, def, 1, math.MaxInt32)
		if err == nil {
			err = e
		}
		return v
	}
	sendBack := capacity("tables.send_back.capacity", 8)
	twoHop := capacity("tables.two_hop.capacity", 8)
	reserved := capacity("tables.reserved_cells.capacity", 32)
	if err != nil {
		core.LogFatal("Tables", "Invalid table capacity: ", err)
		return
	}
	SendBackCapacity, TwoHopCacheCapacity, ReservedCellsCapacity = sendBack, twoHop, reserved
	core.LogDebug("Tables", "send_back=", SendBackCapacity, " two_hop=", TwoHopCacheCapacity, " reserved_cells=", ReservedCellsCapacity)
}
