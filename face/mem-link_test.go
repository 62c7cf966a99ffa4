/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face_test

import (
	"testing"

	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemMediumUnicast(t *testing.T) {
	m := face.NewMemMedium()
	a, err := m.Attach(lladdr.FromNodeID(1))
	require.NoError(t, err)
	b, err := m.Attach(lladdr.FromNodeID(2))
	require.NoError(t, err)
	c, err := m.Attach(lladdr.FromNodeID(3))
	require.NoError(t, err)

	_, err = m.Attach(lladdr.FromNodeID(1))
	assert.ErrorIs(t, err, face.ErrAddrInUse)

	payload := []byte{1, 2, 3}
	require.NoError(t, a.Send(face.Frame{Dst: b.LocalAddr(), Payload: payload}))
	payload[0] = 9

	require.Len(t, b.Incoming(), 1)
	f := <-b.Incoming()
	assert.Equal(t, a.LocalAddr(), f.Src)
	assert.Equal(t, []byte{1, 2, 3}, f.Payload)
	assert.Len(t, c.Incoming(), 0)
	assert.Len(t, a.Incoming(), 0)

	// Unknown destinations are silently lost.
	assert.NoError(t, a.Send(face.Frame{Dst: lladdr.FromNodeID(9), Payload: payload}))
}

func TestMemMediumBroadcast(t *testing.T) {
	m := face.NewMemMedium()
	links := make([]*face.MemLink, 3)
	for i := range links {
		var err error
		links[i], err = m.Attach(lladdr.FromNodeID(uint16(i + 1)))
		require.NoError(t, err)
	}

	require.NoError(t, links[0].Send(face.Frame{Dst: lladdr.Broadcast, Payload: []byte{7}}))
	assert.Len(t, links[0].Incoming(), 0)
	assert.Len(t, links[1].Incoming(), 1)
	assert.Len(t, links[2].Incoming(), 1)
}

func TestMemMediumQueueFullAndClose(t *testing.T) {
	saved := face.DefaultQueueSize
	face.DefaultQueueSize = 1
	defer func() { face.DefaultQueueSize = saved }()

	m := face.NewMemMedium()
	a, _ := m.Attach(lladdr.FromNodeID(1))
	b, _ := m.Attach(lladdr.FromNodeID(2))

	assert.NoError(t, a.Send(face.Frame{Dst: b.LocalAddr()}))
	assert.ErrorIs(t, a.Send(face.Frame{Dst: b.LocalAddr()}), face.ErrQueueFull)

	require.NoError(t, b.Close())
	_, ok := <-b.Incoming()
	assert.True(t, ok)
	_, ok = <-b.Incoming()
	assert.False(t, ok)

	// Address can be reused once detached.
	_, err := m.Attach(lladdr.FromNodeID(2))
	assert.NoError(t, err)
}
