/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import "errors"

// Link errors.
var (
	ErrFrameTooShort = errors.New("frame shorter than its header")
	ErrFrameTooLarge = errors.New("frame payload exceeds MTU")
	ErrQueueFull     = errors.New("receive queue full")
	ErrAddrInUse     = errors.New("link-layer address already attached")
	ErrUnknownPeer   = errors.New("no endpoint known for link-layer address")
	ErrClosed        = errors.New("link closed")
)
