/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
)

// Schedule is the TSCH schedule of a node: its slotframes and their links. It is not safe for concurrent use;
// the lock only guards against re-entrant mutation.
type Schedule struct {
	slotframes []*Slotframe
	locked     bool
	nextHandle uint16

	acct *Accounting
	nbrs NeighborCounters
}

// New creates an empty schedule whose link changes update acct and nbrs.
func New(acct *Accounting, nbrs NeighborCounters) *Schedule {
	return &Schedule{
		acct: acct,
		nbrs: nbrs,
	}
}

func (s *Schedule) String() string {
	return "Schedule"
}

// Accounting returns the counters maintained by the schedule.
func (s *Schedule) Accounting() *Accounting {
	return s.acct
}

// TryMutate runs fn while holding the schedule lock. It fails with ErrLocked instead of waiting if the lock is held.
func (s *Schedule) TryMutate(fn func() error) error {
	if s.locked {
		return ErrLocked
	}
	s.locked = true
	defer func() { s.locked = false }()
	return fn()
}

// IsLocked returns whether a mutation is in progress.
func (s *Schedule) IsLocked() bool {
	return s.locked
}

//////////////
// Slotframes
//////////////

// AddSlotframe creates a slotframe.
func (s *Schedule) AddSlotframe(handle uint16, length uint16) (*Slotframe, error) {
	if length == 0 {
		return nil, ErrZeroLength
	}
	var sf *Slotframe
	err := s.TryMutate(func() error {
		if s.slotframe(handle) != nil {
			return ErrDuplicateHandle
		}
		sf = &Slotframe{Handle: handle, Length: length}
		s.slotframes = append(s.slotframes, sf)
		sort.Slice(s.slotframes, func(i, j int) bool {
			return s.slotframes[i].Handle < s.slotframes[j].Handle
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	core.LogDebug(s, "Added slotframe handle=", handle, " length=", length)
	return sf, nil
}

// RemoveSlotframe deletes every link of a slotframe and then the slotframe itself.
func (s *Schedule) RemoveSlotframe(sf *Slotframe) error {
	if sf == nil {
		return ErrNoSlotframe
	}
	for len(sf.links) > 0 {
		l := sf.links[len(sf.links)-1]
		if err := s.DeleteLink(sf, l.Options, l.Kind, l.Addr, l.Timeslot, l.Channel); err != nil {
			return err
		}
	}
	return s.TryMutate(func() error {
		for i, other := range s.slotframes {
			if other == sf {
				s.slotframes = append(s.slotframes[:i], s.slotframes[i+1:]...)
				core.LogDebug(s, "Removed slotframe handle=", sf.Handle)
				return nil
			}
		}
		return ErrNoSlotframe
	})
}

// RemoveAllSlotframes empties the schedule.
func (s *Schedule) RemoveAllSlotframes() error {
	for len(s.slotframes) > 0 {
		if err := s.RemoveSlotframe(s.slotframes[0]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schedule) slotframe(handle uint16) *Slotframe {
	for _, sf := range s.slotframes {
		if sf.Handle == handle {
			return sf
		}
	}
	return nil
}

// Slotframe returns the slotframe with the given handle, or nil if it does not exist or the schedule is locked.
func (s *Schedule) Slotframe(handle uint16) *Slotframe {
	if s.locked {
		return nil
	}
	return s.slotframe(handle)
}

// Slotframes returns all slotframes ordered by handle.
func (s *Schedule) Slotframes() []*Slotframe {
	if s.locked {
		return nil
	}
	return append([]*Slotframe(nil), s.slotframes...)
}

/////////
// Links
/////////

// AddLink installs a link. Any link already occupying the timeslot is removed first and its accounting unwound.
func (s *Schedule) AddLink(sf *Slotframe, opts LinkOptions, kind LinkKind, peer lladdr.Addr, ts uint16, ch uint16) (*Link, error) {
	if sf == nil {
		return nil, ErrNoSlotframe
	}
	if ts >= sf.Length {
		return nil, ErrInvalidTimeslot
	}

	var evicted, l *Link
	err := s.TryMutate(func() error {
		if evicted = sf.linkAt(ts); evicted != nil {
			sf.remove(evicted)
		}
		l = &Link{
			Handle:          s.nextHandle,
			SlotframeHandle: sf.Handle,
			Options:         opts,
			Kind:            kind,
			Addr:            peer,
			Timeslot:        ts,
			Channel:         ch,
		}
		s.nextHandle++
		sf.insert(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if evicted != nil {
		core.LogDebug(s, "Replacing ", evicted)
		s.unwind(evicted)
	}
	s.account(sf, l)
	core.LogTrace(s, "Added ", l)
	return l, nil
}

// DeleteLink removes the link at (ts, ch). The link must have the given options, kind and peer.
func (s *Schedule) DeleteLink(sf *Slotframe, opts LinkOptions, kind LinkKind, peer lladdr.Addr, ts uint16, ch uint16) error {
	if sf == nil {
		return ErrNoSlotframe
	}
	if ts >= sf.Length {
		return ErrInvalidTimeslot
	}
	if s.locked {
		return ErrLocked
	}
	l := sf.linkAt(ts)
	if l == nil || l.Channel != ch || l.Options != opts || l.Kind != kind || l.Addr != peer {
		return ErrNotFound
	}

	err := s.TryMutate(func() error {
		sf.remove(l)
		return nil
	})
	if err != nil {
		return err
	}
	s.unwind(l)
	core.LogTrace(s, "Removed ", l)
	return nil
}

func (s *Schedule) account(sf *Slotframe, l *Link) {
	a := s.acct
	switch {
	case l.IsUplink():
		if a.RequiredSlots > 0 {
			a.RequiredSlots--
		}
		if !a.GenerationSatisfied {
			l.Reserved = true
			l.generation = true
			a.GenerationSlots++
			if a.GenerationSlots >= a.GenerationTarget {
				a.GenerationSatisfied = true
			}
		} else {
			a.FreeUplinkTimeslots++
		}
	case l.IsDownlink():
		s.nbrs.AddRxLink(l.Addr)
		if a.Coordinator {
			l.Reserved = true
			a.FreeUplinkTimeslots--
		} else if relay := s.findRelay(sf, int(l.Timeslot)); relay != nil {
			l.Reserved = true
			l.relay = relay
			relay.Reserved = true
			a.FreeUplinkTimeslots--
		} else {
			core.LogDebug(s, "No relay cell toward time source for RX ts=", l.Timeslot)
		}
	}
	if l.Options.Has(OptionTX) {
		s.nbrs.AddTxLink(l.Addr, l.Options.Has(OptionShared))
	}
}

func (s *Schedule) unwind(l *Link) {
	a := s.acct
	switch {
	case l.IsUplink():
		switch {
		case l.generation:
			// The next TX cell takes its place.
			a.GenerationSlots--
			a.GenerationSatisfied = a.GenerationSlots >= a.GenerationTarget
			a.RequiredSlots++
		case l.Reserved:
			a.RequiredSlots++
		case a.FreeUplinkTimeslots > 0:
			a.FreeUplinkTimeslots--
		}
	case l.IsDownlink():
		s.nbrs.RemoveRxLink(l.Addr)
		if a.Coordinator {
			if l.Reserved {
				a.FreeUplinkTimeslots++
			}
		} else if l.relay != nil && l.relay.Reserved && s.contains(l.relay) {
			l.relay.Reserved = false
			a.FreeUplinkTimeslots++
		}
		l.relay = nil
	}
	if l.Options.Has(OptionTX) {
		s.nbrs.RemoveTxLink(l.Addr, l.Options.Has(OptionShared))
	}
	l.Reserved = false
	l.generation = false
}

// findRelay returns the unreserved TX cell toward the time source that can forward what is received at ts:
// the cell one timeslot later, or two timeslots later when the next one belongs to the minimal schedule.
func (s *Schedule) findRelay(sf *Slotframe, ts int) *Link {
	ch := s.acct.ParentChannel
	if s.checkTX(sf, ts+1, ch) {
		return sf.linkAt(uint16(ts + 1))
	}
	if (ts+1)%5 == 0 && s.checkTX(sf, ts+2, ch) {
		return sf.linkAt(uint16(ts + 2))
	}
	return nil
}

func (s *Schedule) contains(l *Link) bool {
	sf := s.slotframe(l.SlotframeHandle)
	return sf != nil && sf.linkAt(l.Timeslot) == l
}

func (s *Schedule) linkAt(sf *Slotframe, ts int, ch uint16) *Link {
	if sf == nil || ts < 0 || ts >= int(sf.Length) {
		return nil
	}
	if l := sf.linkAt(uint16(ts)); l != nil && l.Channel == ch {
		return l
	}
	return nil
}

func (s *Schedule) checkTX(sf *Slotframe, ts int, ch uint16) bool {
	l := s.linkAt(sf, ts, ch)
	return l != nil && l.IsUplink() && l.Addr == s.acct.TimeSource && !l.Reserved
}

// CheckTX returns whether (ts, ch) holds an unreserved normal TX cell toward the time source.
func (s *Schedule) CheckTX(sf *Slotframe, ts int, ch uint16) bool {
	if s.locked {
		return false
	}
	return s.checkTX(sf, ts, ch)
}

// CheckRX returns whether (ts, ch) holds a normal RX cell.
func (s *Schedule) CheckRX(sf *Slotframe, ts int, ch uint16) bool {
	if s.locked {
		return false
	}
	l := s.linkAt(sf, ts, ch)
	return l != nil && l.IsDownlink()
}

// LinkByTimeslot returns the link at (ts, ch), or nil.
func (s *Schedule) LinkByTimeslot(sf *Slotframe, ts uint16, ch uint16) *Link {
	if s.locked {
		return nil
	}
	return s.linkAt(sf, int(ts), ch)
}

// LinkAt is LinkByTimeslot for a possibly out-of-range timeslot, which yields nil.
func (s *Schedule) LinkAt(sf *Slotframe, ts int, ch uint16) *Link {
	if s.locked {
		return nil
	}
	return s.linkAt(sf, ts, ch)
}

// LinkByTimeslotOnly returns the link at ts on any channel, or nil.
func (s *Schedule) LinkByTimeslotOnly(sf *Slotframe, ts uint16) *Link {
	if s.locked || sf == nil {
		return nil
	}
	return sf.linkAt(ts)
}

// LinkByHandle returns the link with the given handle, or nil.
func (s *Schedule) LinkByHandle(handle uint16) *Link {
	if s.locked {
		return nil
	}
	for _, sf := range s.slotframes {
		for _, l := range sf.links {
			if l.Handle == handle {
				return l
			}
		}
	}
	return nil
}

// Links returns the links of a slotframe ordered by timeslot.
func (s *Schedule) Links(sf *Slotframe) []*Link {
	if s.locked || sf == nil {
		return nil
	}
	return append([]*Link(nil), sf.links...)
}

// LinksWith returns the links toward peer that match kind and have all bits of opts set.
func (s *Schedule) LinksWith(sf *Slotframe, peer lladdr.Addr, kind LinkKind, opts LinkOptions) []*Link {
	var found []*Link
	for _, l := range s.Links(sf) {
		if l.Addr == peer && l.Kind == kind && l.Options.Has(opts) {
			found = append(found, l)
		}
	}
	return found
}

// Print returns a dump of the schedule, one line per slotframe and link.
func (s *Schedule) Print() string {
	var b strings.Builder
	b.WriteString("----- start slotframe list -----\n")
	for _, sf := range s.slotframes {
		b.WriteString("Slotframe Handle " + strconv.Itoa(int(sf.Handle)) + ", size " + strconv.Itoa(int(sf.Length)) + "\n")
		for _, l := range sf.links {
			b.WriteString("* Link Options " + l.Options.String() + ", type " + l.Kind.String() +
				", timeslot " + strconv.Itoa(int(l.Timeslot)) + ", channel offset " + strconv.Itoa(int(l.Channel)) +
				", address " + strconv.Itoa(int(l.Addr.NodeID())))
			if l.Reserved {
				b.WriteString(", reserved")
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("----- end slotframe list -----\n")
	return b.String()
}
