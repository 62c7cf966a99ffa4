/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sort"
	"sync"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
)

// MemMedium is an in-process radio medium on which every attached link hears every other.
type MemMedium struct {
	mutex sync.Mutex
	links map[lladdr.Addr]*MemLink
}

// NewMemMedium creates an empty medium.
func NewMemMedium() *MemMedium {
	return &MemMedium{links: make(map[lladdr.Addr]*MemLink)}
}

func (m *MemMedium) String() string {
	return "MemMedium"
}

// Attach creates a link on the medium with the given address.
func (m *MemMedium) Attach(addr lladdr.Addr) (*MemLink, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.links[addr]; ok {
		return nil, ErrAddrInUse
	}
	l := &MemLink{
		medium:   m,
		addr:     addr,
		incoming: make(chan Frame, DefaultQueueSize),
	}
	m.links[addr] = l
	core.LogDebug(m, "Attached ", addr)
	return l, nil
}

func (m *MemMedium) detach(l *MemLink) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.links[l.addr] == l {
		delete(m.links, l.addr)
	}
}

// receivers returns the links a frame is delivered to, in address order.
func (m *MemMedium) receivers(f *Frame) []*MemLink {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !f.Dst.IsBroadcast() {
		if l, ok := m.links[f.Dst]; ok && f.Dst != f.Src {
			return []*MemLink{l}
		}
		return nil
	}
	all := make([]*MemLink, 0, len(m.links))
	for addr, l := range m.links {
		if addr != f.Src {
			all = append(all, l)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].addr.NodeID() < all[j].addr.NodeID()
	})
	return all
}

// MemLink is a link attached to a MemMedium.
type MemLink struct {
	medium   *MemMedium
	addr     lladdr.Addr
	incoming chan Frame
	mutex    sync.Mutex
	closed   bool
}

var _ Link = &MemLink{}

func (l *MemLink) String() string {
	return "MemLink, Addr=" + l.addr.String()
}

// LocalAddr returns the address of the link.
func (l *MemLink) LocalAddr() lladdr.Addr {
	return l.addr
}

// Send delivers a frame to its destination, or to every other link if broadcast. Frames to absent nodes are lost.
func (l *MemLink) Send(f Frame) error {
	if len(f.Payload) > MTU {
		core.LogWarn(l, "Attempted to send frame larger than MTU - DROP")
		return ErrFrameTooLarge
	}
	f.Src = l.addr
	var err error
	for _, r := range l.medium.receivers(&f) {
		delivered := Frame{Dst: f.Dst, Src: f.Src, Payload: append([]byte(nil), f.Payload...)}
		if e := r.deliver(delivered); e != nil {
			core.LogWarn(l, "Receive queue of ", r.addr, " full - DROP")
			err = e
		}
	}
	return err
}

func (l *MemLink) deliver(f Frame) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return nil
	}
	select {
	case l.incoming <- f:
		return nil
	default:
		return ErrQueueFull
	}
}

// Incoming returns the channel of received frames.
func (l *MemLink) Incoming() <-chan Frame {
	return l.incoming
}

// Close detaches the link from the medium.
func (l *MemLink) Close() error {
	l.medium.detach(l)
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if !l.closed {
		l.closed = true
		close(l.incoming)
	}
	return nil
}
