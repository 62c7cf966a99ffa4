/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"github.com/gttsch/gtsf/lladdr"
)

// MTU is the largest payload a frame may carry, matching an IEEE 802.15.4 frame.
const MTU = 127

// FrameHeaderSize is the size of the destination and source addresses preceding the payload.
const FrameHeaderSize = 2 * lladdr.Size

// Frame is a link-layer frame exchanged between nodes.
type Frame struct {
	Dst     lladdr.Addr
	Src     lladdr.Addr
	Payload []byte
}

// Encode returns the wire encoding of the frame.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MTU {
		return nil, ErrFrameTooLarge
	}
	wire := make([]byte, FrameHeaderSize+len(f.Payload))
	copy(wire[0:lladdr.Size], f.Dst[:])
	copy(wire[lladdr.Size:FrameHeaderSize], f.Src[:])
	copy(wire[FrameHeaderSize:], f.Payload)
	return wire, nil
}

// DecodeFrame decodes a frame. The payload is copied out of wire.
func DecodeFrame(wire []byte) (Frame, error) {
	var f Frame
	if len(wire) < FrameHeaderSize {
		return f, ErrFrameTooShort
	}
	if len(wire)-FrameHeaderSize > MTU {
		return f, ErrFrameTooLarge
	}
	copy(f.Dst[:], wire[0:lladdr.Size])
	copy(f.Src[:], wire[lladdr.Size:FrameHeaderSize])
	f.Payload = append([]byte(nil), wire[FrameHeaderSize:]...)
	return f, nil
}

// IsFor returns whether a node with address local should process the frame.
func (f *Frame) IsFor(local lladdr.Addr) bool {
	return f.Dst == local || f.Dst.IsBroadcast()
}
