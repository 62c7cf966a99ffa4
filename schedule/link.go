/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

import (
	"strconv"
	"strings"

	"github.com/gttsch/gtsf/lladdr"
)

// LinkOptions is the role bitmap of a link.
type LinkOptions uint8

// Link option bits.
const (
	OptionTX          LinkOptions = 0x01
	OptionRX          LinkOptions = 0x02
	OptionShared      LinkOptions = 0x04
	OptionTimekeeping LinkOptions = 0x08
)

// Has returns whether all bits of flag are set.
func (o LinkOptions) Has(flag LinkOptions) bool {
	return o&flag == flag
}

func (o LinkOptions) String() string {
	var parts []string
	if o.Has(OptionTX) {
		parts = append(parts, "Tx")
	}
	if o.Has(OptionRX) {
		parts = append(parts, "Rx")
	}
	if o.Has(OptionShared) {
		parts = append(parts, "Sh")
	}
	if o.Has(OptionTimekeeping) {
		parts = append(parts, "Tk")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}

// LinkKind is the type of a link.
type LinkKind uint8

// Link kinds.
const (
	KindNormal          LinkKind = 0
	KindAdvertising     LinkKind = 1
	KindAdvertisingOnly LinkKind = 2
)

func (k LinkKind) String() string {
	switch k {
	case KindNormal:
		return "NORMAL"
	case KindAdvertising:
		return "ADV"
	case KindAdvertisingOnly:
		return "ADV_ONLY"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Link is a scheduled cell.
type Link struct {
	Handle          uint16
	SlotframeHandle uint16
	Options         LinkOptions
	Kind            LinkKind
	Addr            lladdr.Addr
	Timeslot        uint16
	Channel         uint16
	Reserved        bool

	// relay is the TX cell toward the time source that forwards what this RX cell receives.
	relay *Link
	// generation is set on a TX cell reserved for locally generated traffic rather than for relaying.
	generation bool
}

// IsGeneration returns whether the link is a TX cell reserved for locally generated traffic.
func (l *Link) IsGeneration() bool {
	return l.generation
}

func (l *Link) String() string {
	return "Link handle=" + strconv.Itoa(int(l.Handle)) + " sf=" + strconv.Itoa(int(l.SlotframeHandle)) +
		" opts=" + l.Options.String() + " kind=" + l.Kind.String() + " ts=" + strconv.Itoa(int(l.Timeslot)) +
		" ch=" + strconv.Itoa(int(l.Channel)) + " addr=" + l.Addr.String() + " reserved=" + strconv.FormatBool(l.Reserved)
}

// IsUplink returns whether the link is a dedicated normal TX cell.
func (l *Link) IsUplink() bool {
	return l.Kind == KindNormal && l.Options == OptionTX
}

// IsDownlink returns whether the link is a dedicated normal RX cell.
func (l *Link) IsDownlink() bool {
	return l.Kind == KindNormal && l.Options == OptionRX
}
