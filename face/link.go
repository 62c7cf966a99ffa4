/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"fmt"

	"github.com/gttsch/gtsf/lladdr"
)

// Link is a frame transport shared with neighboring nodes. Received frames addressed to the local node (or
// broadcast) are delivered on Incoming; the channel is closed once the link goes down.
type Link interface {
	fmt.Stringer

	LocalAddr() lladdr.Addr
	Send(f Frame) error
	Incoming() <-chan Frame
	Close() error
}

// DefaultQueueSize is the capacity of the receive queue of a link.
var DefaultQueueSize = 64
