/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import "errors"

// Engine errors.
var (
	ErrNoChannelAvailable = errors.New("no two-hop channel available")
	ErrNoSlotframe        = errors.New("active slotframe missing")
	ErrNoTimeSource       = errors.New("no time source")
	ErrNoCells            = errors.New("no free cells found")
	ErrBackoff            = errors.New("backing off after busy peer")
	ErrInvalidVariant     = errors.New("unknown scheduling function variant")
)
