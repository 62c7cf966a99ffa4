/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import "errors"

// Table errors.
var (
	ErrCapacity       = errors.New("table is full")
	ErrInvalidChannel = errors.New("channel offset 0 cannot be stored")
	ErrInvalidCount   = errors.New("count must be positive")
)
