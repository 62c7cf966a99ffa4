/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"math"

	"github.com/gttsch/gtsf/core"
)

// UDPPort is the default port of UDP links.
var UDPPort uint16 = 6464

// WebSocketURL is the URL of the WebSocket medium hub.
var WebSocketURL = "ws://127.0.0.1:9696/medium"

// HubBind is the address the WebSocket medium hub listens on.
var HubBind = ":9696"

// Configure configures the link system.
func Configure() {
	var err error
	check := func(e error) {
		if err == nil {
			err = e
		}
	}
	queueSize, e := core.GetConfigIntRange("faces.queue_size", 64, 1, math.MaxInt32)
	check(e)
	port, e := core.GetConfigIntRange("faces.udp.port", 6464, 1, math.MaxUint16)
	check(e)
	url, e := core.GetConfigString("faces.websocket.url", "ws://127.0.0.1:9696/medium")
	check(e)
	bind, e := core.GetConfigString("faces.websocket.bind", ":9696")
	check(e)
	if err != nil {
		core.LogFatal("Faces", "Invalid link configuration: ", err)
		return
	}
	DefaultQueueSize = queueSize
	UDPPort = uint16(port)
	WebSocketURL = url
	HubBind = bind
}
