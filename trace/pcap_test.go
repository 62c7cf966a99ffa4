/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package trace_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket/pcapgo"
	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/sixp"
	"github.com/gttsch/gtsf/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPcapTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := trace.NewPcapTracer(&buf)
	require.NoError(t, err)
	tracer.SetClock(func() time.Time { return time.Unix(1600000000, 0) })

	payload, err := sixp.Create(sixp.TypeRequest, sixp.CmdAskChannel, 0xf0, 1, sixp.NewChannelRequest())
	require.NoError(t, err)
	f := face.Frame{Dst: lladdr.FromNodeID(1), Src: lladdr.FromNodeID(2), Payload: payload}
	require.NoError(t, tracer.Trace(f))
	require.NoError(t, tracer.Trace(face.Frame{Dst: lladdr.Broadcast, Src: lladdr.FromNodeID(2)}))
	assert.Equal(t, 2, tracer.Count())
	assert.NoError(t, tracer.Close())

	r, err := pcapgo.NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, trace.LinkType, r.LinkType())

	data, ci, err := r.ReadPacketData()
	require.NoError(t, err)
	assert.Equal(t, int64(1600000000), ci.Timestamp.Unix())
	assert.Equal(t, face.FrameHeaderSize+len(payload), ci.Length)
	decoded, err := face.DecodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, f.Src, decoded.Src)
	pkt, err := sixp.Parse(decoded.Payload)
	require.NoError(t, err)
	assert.Equal(t, sixp.CmdAskChannel, pkt.Code)

	data, _, err = r.ReadPacketData()
	require.NoError(t, err)
	assert.Len(t, data, face.FrameHeaderSize)

	_, _, err = r.ReadPacketData()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCreatePcapTracer(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trace.pcap")
	tracer, err := trace.CreatePcapTracer(file)
	require.NoError(t, err)
	require.NoError(t, tracer.Trace(face.Frame{Dst: lladdr.FromNodeID(1), Payload: []byte{0x00, 0x07, 0, 0}}))
	require.NoError(t, tracer.Close())

	fh, err := os.Open(file)
	require.NoError(t, err)
	defer fh.Close()
	r, err := pcapgo.NewReader(fh)
	require.NoError(t, err)
	_, _, err = r.ReadPacketData()
	assert.NoError(t, err)

	_, err = trace.CreatePcapTracer(filepath.Join(t.TempDir(), "missing", "trace.pcap"))
	assert.Error(t, err)
}
