/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package lladdr contains IEEE 802.15.4 extended (link-layer) addresses.
package lladdr

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Size is the length of an extended address in bytes.
const Size = 8

// Addr is an 8-byte link-layer address.
type Addr [Size]byte

// Null is the unspecified address.
var Null = Addr{}

// Broadcast is the all-nodes address.
var Broadcast = Addr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ErrInvalidAddr is returned when a textual address cannot be parsed.
var ErrInvalidAddr = errors.New("invalid link-layer address")

// FromNodeID returns the address assigned to the node with the given numeric ID.
func FromNodeID(id uint16) Addr {
	var a Addr
	a[0] = 0x02
	a[6] = byte(id >> 8)
	a[7] = byte(id)
	return a
}

// NodeID returns the numeric node ID carried in the last two bytes of the address.
func (a Addr) NodeID() uint16 {
	return uint16(a[6])<<8 | uint16(a[7])
}

// IsNull returns whether the address is unspecified.
func (a Addr) IsNull() bool {
	return a == Null
}

// IsBroadcast returns whether the address is the broadcast address.
func (a Addr) IsBroadcast() bool {
	return a == Broadcast
}

func (a Addr) String() string {
	var b strings.Builder
	for i, octet := range a {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex.EncodeToString([]byte{octet}))
	}
	return b.String()
}

// Parse decodes an address in the colon-separated form produced by String.
func Parse(s string) (Addr, error) {
	var a Addr
	raw, err := hex.DecodeString(strings.ReplaceAll(s, ":", ""))
	if err != nil || len(raw) != Size {
		return a, ErrInvalidAddr
	}
	copy(a[:], raw)
	return a, nil
}
