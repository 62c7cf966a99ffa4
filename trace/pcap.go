/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package trace

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face"
)

// LinkType is the pcap link type of captured frames (DLT_USER0).
const LinkType = layers.LinkType(147)

// SnapLen is the capture length written to the file header.
const SnapLen = 65535

// PcapTracer writes every traced frame, in its wire encoding, to a pcap stream.
type PcapTracer struct {
	mutex  sync.Mutex
	w      *pcapgo.Writer
	closer io.Closer
	clock  func() time.Time
	count  int
}

// NewPcapTracer creates a tracer writing to w.
func NewPcapTracer(w io.Writer) (*PcapTracer, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(SnapLen, LinkType); err != nil {
		return nil, err
	}
	t := &PcapTracer{w: pw, clock: time.Now}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t, nil
}

// CreatePcapTracer creates a tracer writing to a new file.
func CreatePcapTracer(file string) (*PcapTracer, error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, err
	}
	t, err := NewPcapTracer(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	core.LogInfo(t, "Capturing 6P frames to ", file)
	return t, nil
}

func (t *PcapTracer) String() string {
	return "PcapTracer"
}

// SetClock replaces the clock used for capture timestamps.
func (t *PcapTracer) SetClock(clock func() time.Time) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.clock = clock
}

// Trace records a frame.
func (t *PcapTracer) Trace(f face.Frame) error {
	wire, err := f.Encode()
	if err != nil {
		return err
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	ci := gopacket.CaptureInfo{
		Timestamp:     t.clock(),
		CaptureLength: len(wire),
		Length:        len(wire),
	}
	if err := t.w.WritePacket(ci, wire); err != nil {
		return err
	}
	t.count++
	return nil
}

// Count returns the number of frames recorded.
func (t *PcapTracer) Count() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.count
}

// Close closes the underlying writer if it is closable.
func (t *PcapTracer) Close() error {
	if t.closer == nil {
		return nil
	}
	core.LogDebug(t, "Closing capture after ", t.Count(), " frames")
	return t.closer.Close()
}
