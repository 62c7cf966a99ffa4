/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face/impl"
	"github.com/gttsch/gtsf/lladdr"
)

// UDPLink carries frames in UDP datagrams to a configured set of peers. Broadcast frames are sent to every
// peer. Peers are also learned from the source of received frames.
type UDPLink struct {
	addr     lladdr.Addr
	conn     net.PacketConn
	incoming chan Frame
	peers    map[lladdr.Addr]*net.UDPAddr
	mutex    sync.RWMutex
	hasQuit  chan bool
	closeOne sync.Once
}

var _ Link = &UDPLink{}

// NewUDPLink creates a UDP link bound to the given local endpoint, e.g. "127.0.0.1:6464".
func NewUDPLink(addr lladdr.Addr, localEndpoint string) (*UDPLink, error) {
	listenConfig := &net.ListenConfig{Control: impl.SyscallReuseAddr}
	conn, err := listenConfig.ListenPacket(context.Background(), "udp", localEndpoint)
	if err != nil {
		return nil, err
	}
	l := &UDPLink{
		addr:     addr,
		conn:     conn,
		incoming: make(chan Frame, DefaultQueueSize),
		peers:    make(map[lladdr.Addr]*net.UDPAddr),
		hasQuit:  make(chan bool, 1),
	}
	go l.runReceive()
	return l, nil
}

func (l *UDPLink) String() string {
	return "UDPLink, Addr=" + l.addr.String() + ", LocalEndpoint=" + l.conn.LocalAddr().String()
}

// LocalAddr returns the link-layer address of the link.
func (l *UDPLink) LocalAddr() lladdr.Addr {
	return l.addr
}

// LocalEndpoint returns the UDP endpoint the link is bound to.
func (l *UDPLink) LocalEndpoint() *net.UDPAddr {
	return l.conn.LocalAddr().(*net.UDPAddr)
}

// AddPeer maps a link-layer address to a UDP endpoint.
func (l *UDPLink) AddPeer(addr lladdr.Addr, endpoint string) error {
	remote, err := net.ResolveUDPAddr("udp", endpoint)
	if err != nil {
		return err
	}
	l.mutex.Lock()
	l.peers[addr] = remote
	l.mutex.Unlock()
	core.LogDebug(l, "Added peer ", addr, " at ", remote)
	return nil
}

// Peers returns the known peer addresses in node ID order.
func (l *UDPLink) Peers() []lladdr.Addr {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	peers := make([]lladdr.Addr, 0, len(l.peers))
	for addr := range l.peers {
		peers = append(peers, addr)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].NodeID() < peers[j].NodeID() })
	return peers
}

// Send transmits a frame to its destination peer, or to all peers if broadcast.
func (l *UDPLink) Send(f Frame) error {
	f.Src = l.addr
	wire, err := f.Encode()
	if err != nil {
		core.LogWarn(l, "Attempted to send frame larger than MTU - DROP")
		return err
	}

	var remotes []*net.UDPAddr
	l.mutex.RLock()
	if f.Dst.IsBroadcast() {
		for _, remote := range l.peers {
			remotes = append(remotes, remote)
		}
	} else if remote, ok := l.peers[f.Dst]; ok {
		remotes = append(remotes, remote)
	}
	l.mutex.RUnlock()
	if len(remotes) == 0 && !f.Dst.IsBroadcast() {
		return ErrUnknownPeer
	}

	for _, remote := range remotes {
		core.LogTrace(l, "Sending frame of size ", len(wire), " to ", remote)
		if _, err := l.conn.WriteTo(wire, remote); err != nil {
			core.LogWarn(l, "Unable to send on socket (", err, ") - DROP")
			return err
		}
	}
	return nil
}

// Incoming returns the channel of received frames.
func (l *UDPLink) Incoming() <-chan Frame {
	return l.incoming
}

// Close closes the socket and stops the receive thread.
func (l *UDPLink) Close() error {
	var err error
	l.closeOne.Do(func() {
		l.hasQuit <- true
		err = l.conn.Close()
	})
	return err
}

func (l *UDPLink) runReceive() {
	core.LogTrace(l, "Starting receive thread")
	defer close(l.incoming)

	buf := make([]byte, FrameHeaderSize+MTU+1)
	for {
		n, remote, err := l.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-l.hasQuit:
			default:
				core.LogWarn(l, "Unable to read from socket (", err, ") - Link DOWN")
			}
			return
		}

		f, err := DecodeFrame(buf[:n])
		if err != nil {
			core.LogWarn(l, "Received invalid frame of size ", strconv.Itoa(n), " (", err, ") - DROP")
			continue
		}
		if f.Src == l.addr || !f.IsFor(l.addr) {
			continue
		}

		if udpRemote, ok := remote.(*net.UDPAddr); ok {
			l.mutex.Lock()
			if _, known := l.peers[f.Src]; !known {
				l.peers[f.Src] = udpRemote
				core.LogDebug(l, "Learned peer ", f.Src, " at ", udpRemote)
			}
			l.mutex.Unlock()
		}

		select {
		case l.incoming <- f:
		default:
			core.LogWarn(l, "Receive queue full - DROP")
		}
	}
}
