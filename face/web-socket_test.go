/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHub(t *testing.T) {
	hub := face.NewWebSocketHub("127.0.0.1:0")
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/medium"

	a, err := face.DialWebSocketLink(lladdr.FromNodeID(1), url)
	require.NoError(t, err)
	defer a.Close()
	b, err := face.DialWebSocketLink(lladdr.FromNodeID(2), url)
	require.NoError(t, err)
	defer b.Close()
	c, err := face.DialWebSocketLink(lladdr.FromNodeID(3), url)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool { return len(hub.Nodes()) == 3 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Send(face.Frame{Dst: b.LocalAddr(), Payload: []byte{0x42}}))
	f := receiveWithin(t, b)
	assert.Equal(t, a.LocalAddr(), f.Src)
	assert.Equal(t, []byte{0x42}, f.Payload)

	require.NoError(t, c.Send(face.Frame{Dst: lladdr.Broadcast, Payload: []byte{0x43}}))
	assert.Equal(t, []byte{0x43}, receiveWithin(t, a).Payload)
	assert.Equal(t, []byte{0x43}, receiveWithin(t, b).Payload)

	// Duplicate addresses are refused.
	dup, err := face.DialWebSocketLink(lladdr.FromNodeID(1), url)
	if err == nil {
		_, ok := <-dup.Incoming()
		assert.False(t, ok)
		dup.Close()
	}

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return len(hub.Nodes()) == 2 }, 2*time.Second, 10*time.Millisecond)
}
