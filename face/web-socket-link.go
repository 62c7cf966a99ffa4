/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
)

// WebSocketLink is a link to a WebSocketHub.
type WebSocketLink struct {
	addr     lladdr.Addr
	c        *websocket.Conn
	incoming chan Frame
	mutex    sync.Mutex
	closed   bool
}

var _ Link = &WebSocketLink{}

// DialWebSocketLink connects to the hub at hubURL as the node with address addr.
func DialWebSocketLink(addr lladdr.Addr, hubURL string) (*WebSocketLink, error) {
	u, err := url.Parse(hubURL)
	if err != nil {
		return nil, err
	}
	query := u.Query()
	query.Set("addr", addr.String())
	u.RawQuery = query.Encode()

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	l := &WebSocketLink{
		addr:     addr,
		c:        c,
		incoming: make(chan Frame, DefaultQueueSize),
	}
	go l.runReceive()
	return l, nil
}

func (l *WebSocketLink) String() string {
	return "WebSocketLink, Addr=" + l.addr.String() + ", Hub=" + l.c.RemoteAddr().String()
}

// LocalAddr returns the address of the link.
func (l *WebSocketLink) LocalAddr() lladdr.Addr {
	return l.addr
}

// Send forwards a frame to the hub.
func (l *WebSocketLink) Send(f Frame) error {
	f.Src = l.addr
	wire, err := f.Encode()
	if err != nil {
		core.LogWarn(l, "Attempted to send frame larger than MTU - DROP")
		return err
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return ErrClosed
	}
	core.LogTrace(l, "Sending frame of size ", len(wire))
	if err := l.c.WriteMessage(websocket.BinaryMessage, wire); err != nil {
		core.LogWarn(l, "Unable to send on socket (", err, ") - DROP")
		return err
	}
	return nil
}

// Incoming returns the channel of received frames.
func (l *WebSocketLink) Incoming() <-chan Frame {
	return l.incoming
}

// Close disconnects from the hub.
func (l *WebSocketLink) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return l.c.Close()
}

func (l *WebSocketLink) runReceive() {
	core.LogTrace(l, "Starting receive thread")
	defer close(l.incoming)

	for {
		mt, message, err := l.c.ReadMessage()
		if err != nil {
			l.mutex.Lock()
			closed := l.closed
			l.mutex.Unlock()
			if !closed {
				core.LogWarn(l, "Unable to read from socket (", err, ") - Link DOWN")
			}
			return
		}
		if mt != websocket.BinaryMessage {
			core.LogWarn(l, "Ignored non-binary message")
			continue
		}
		f, err := DecodeFrame(message)
		if err != nil {
			core.LogWarn(l, "Received invalid frame (", err, ") - DROP")
			continue
		}
		if !f.IsFor(l.addr) {
			continue
		}
		select {
		case l.incoming <- f:
		default:
			core.LogWarn(l, "Receive queue full - DROP")
		}
	}
}
