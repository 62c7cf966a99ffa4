/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
)

// WebSocketHub relays frames between nodes connected over WebSocket, acting as a shared radio medium for
// nodes running in separate processes. Each node connects with its link-layer address in the "addr" query
// parameter.
type WebSocketHub struct {
	server   http.Server
	upgrader websocket.Upgrader
	conns    sync.Map // lladdr.Addr -> *hubConn
}

type hubConn struct {
	addr  lladdr.Addr
	c     *websocket.Conn
	mutex sync.Mutex
}

func (h *hubConn) write(wire []byte) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.c.WriteMessage(websocket.BinaryMessage, wire)
}

// NewWebSocketHub creates a hub that will listen on bind once run.
func NewWebSocketHub(bind string) *WebSocketHub {
	h := &WebSocketHub{
		server: http.Server{Addr: bind},
		upgrader: websocket.Upgrader{
			WriteBufferPool: &sync.Pool{},
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/medium", h.handler)
	h.server.Handler = mux
	return h
}

func (h *WebSocketHub) String() string {
	return "WebSocketHub, Bind=" + h.server.Addr
}

// Handler returns the HTTP handler of the hub.
func (h *WebSocketHub) Handler() http.Handler {
	return h.server.Handler
}

// Run serves the hub until it is closed.
func (h *WebSocketHub) Run() {
	core.LogInfo(h, "Starting hub")
	err := h.server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		core.LogFatal(h, "Unable to start hub: ", err)
	}
}

// Nodes returns the addresses of connected nodes in node ID order.
func (h *WebSocketHub) Nodes() []lladdr.Addr {
	var nodes []lladdr.Addr
	h.conns.Range(func(key, value interface{}) bool {
		nodes = append(nodes, key.(lladdr.Addr))
		return true
	})
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].NodeID() < nodes[j].NodeID() })
	return nodes
}

func (h *WebSocketHub) handler(w http.ResponseWriter, r *http.Request) {
	addr, err := lladdr.Parse(r.URL.Query().Get("addr"))
	if err != nil {
		http.Error(w, "invalid addr", http.StatusBadRequest)
		return
	}
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	conn := &hubConn{addr: addr, c: c}
	if _, loaded := h.conns.LoadOrStore(addr, conn); loaded {
		core.LogWarn(h, "Refusing duplicate node ", addr)
		c.Close()
		return
	}
	core.LogInfo(h, "Accepting node ", addr, " from ", c.RemoteAddr())
	h.runReceive(conn)
}

func (h *WebSocketHub) runReceive(conn *hubConn) {
	defer func() {
		h.conns.Delete(conn.addr)
		conn.c.Close()
		core.LogInfo(h, "Node ", conn.addr, " left")
	}()

	for {
		mt, message, err := conn.c.ReadMessage()
		if err != nil {
			core.LogDebug(h, "Unable to read from ", conn.addr, " (", err, ")")
			return
		}
		if mt != websocket.BinaryMessage {
			core.LogWarn(h, "Ignored non-binary message")
			continue
		}
		f, err := DecodeFrame(message)
		if err != nil {
			core.LogWarn(h, "Received invalid frame from ", conn.addr, " - DROP")
			continue
		}
		// Source is always the sender's registered address.
		f.Src = conn.addr
		wire, _ := f.Encode()
		h.relay(&f, wire)
	}
}

func (h *WebSocketHub) relay(f *Frame, wire []byte) {
	if !f.Dst.IsBroadcast() {
		if v, ok := h.conns.Load(f.Dst); ok && f.Dst != f.Src {
			h.send(v.(*hubConn), wire)
		}
		return
	}
	h.conns.Range(func(key, value interface{}) bool {
		if key.(lladdr.Addr) != f.Src {
			h.send(value.(*hubConn), wire)
		}
		return true
	})
}

func (h *WebSocketHub) send(conn *hubConn, wire []byte) {
	if err := conn.write(wire); err != nil {
		core.LogWarn(h, "Unable to send to ", conn.addr, " (", err, ") - DROP")
	}
}

// Close stops the hub.
func (h *WebSocketHub) Close() {
	core.LogInfo(h, "Stopping hub")
	h.server.Shutdown(context.TODO())
	h.conns.Range(func(key, value interface{}) bool {
		value.(*hubConn).c.Close()
		return true
	})
}
