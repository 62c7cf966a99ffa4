/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

import "errors"

// Schedule errors.
var (
	ErrLocked          = errors.New("schedule is locked")
	ErrInvalidTimeslot = errors.New("timeslot outside of slotframe")
	ErrNotFound        = errors.New("link not found")
	ErrNoSlotframe     = errors.New("no such slotframe")
	ErrDuplicateHandle = errors.New("slotframe handle already in use")
	ErrZeroLength      = errors.New("slotframe length must be positive")
)
