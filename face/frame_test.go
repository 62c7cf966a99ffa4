/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face_test

import (
	"bytes"
	"testing"

	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameEncodeDecode(t *testing.T) {
	f := face.Frame{Dst: lladdr.FromNodeID(2), Src: lladdr.FromNodeID(1), Payload: []byte{0x00, 0x08, 0x00, 0x07}}
	wire, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, face.FrameHeaderSize+4, len(wire))
	assert.Equal(t, byte(0x02), wire[0])
	assert.Equal(t, byte(0x02), wire[7])
	assert.Equal(t, byte(0x01), wire[15])

	d, err := face.DecodeFrame(wire)
	require.NoError(t, err)
	assert.Equal(t, f.Dst, d.Dst)
	assert.Equal(t, f.Src, d.Src)
	assert.Equal(t, f.Payload, d.Payload)

	// Decoded payload does not alias the wire buffer.
	wire[face.FrameHeaderSize] = 0xff
	assert.Equal(t, byte(0x00), d.Payload[0])
}

func TestFrameErrors(t *testing.T) {
	_, err := face.DecodeFrame(make([]byte, face.FrameHeaderSize-1))
	assert.ErrorIs(t, err, face.ErrFrameTooShort)

	_, err = face.DecodeFrame(make([]byte, face.FrameHeaderSize+face.MTU+1))
	assert.ErrorIs(t, err, face.ErrFrameTooLarge)

	f := face.Frame{Payload: bytes.Repeat([]byte{1}, face.MTU+1)}
	_, err = f.Encode()
	assert.ErrorIs(t, err, face.ErrFrameTooLarge)

	f = face.Frame{Payload: bytes.Repeat([]byte{1}, face.MTU)}
	_, err = f.Encode()
	assert.NoError(t, err)
}

func TestFrameIsFor(t *testing.T) {
	local := lladdr.FromNodeID(5)
	assert.True(t, (&face.Frame{Dst: local}).IsFor(local))
	assert.True(t, (&face.Frame{Dst: lladdr.Broadcast}).IsFor(local))
	assert.False(t, (&face.Frame{Dst: lladdr.FromNodeID(6)}).IsFor(local))
}
