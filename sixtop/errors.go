/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixtop

import "errors"

// Transaction layer errors.
var (
	ErrBusy          = errors.New("transaction already in progress with peer")
	ErrNoTransaction = errors.New("no matching transaction")
	ErrUnknownSF     = errors.New("no scheduling function registered for SFID")
	ErrDuplicateSF   = errors.New("scheduling function already registered for SFID")
)
