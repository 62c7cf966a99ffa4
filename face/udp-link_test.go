/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face_test

import (
	"testing"
	"time"

	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveWithin(t *testing.T, l face.Link) face.Frame {
	select {
	case f, ok := <-l.Incoming():
		require.True(t, ok)
		return f
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no frame received")
	}
	return face.Frame{}
}

func TestUDPLink(t *testing.T) {
	a, err := face.NewUDPLink(lladdr.FromNodeID(1), "127.0.0.1:0")
	require.NoError(t, err)
	defer a.Close()
	b, err := face.NewUDPLink(lladdr.FromNodeID(2), "127.0.0.1:0")
	require.NoError(t, err)
	defer b.Close()

	assert.ErrorIs(t, a.Send(face.Frame{Dst: b.LocalAddr()}), face.ErrUnknownPeer)

	require.NoError(t, a.AddPeer(b.LocalAddr(), b.LocalEndpoint().String()))
	require.NoError(t, a.Send(face.Frame{Dst: b.LocalAddr(), Payload: []byte{0x10, 0x20}}))
	f := receiveWithin(t, b)
	assert.Equal(t, a.LocalAddr(), f.Src)
	assert.Equal(t, []byte{0x10, 0x20}, f.Payload)

	// b learned a's endpoint from the received frame.
	assert.Equal(t, []lladdr.Addr{a.LocalAddr()}, b.Peers())
	require.NoError(t, b.Send(face.Frame{Dst: lladdr.Broadcast, Payload: []byte{0x30}}))
	f = receiveWithin(t, a)
	assert.Equal(t, lladdr.Broadcast, f.Dst)
	assert.Equal(t, []byte{0x30}, f.Payload)
}
