/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

import "sort"

// Slotframe is a repeating sequence of timeslots holding at most one link per timeslot.
type Slotframe struct {
	Handle uint16
	Length uint16
	links  []*Link // ordered by timeslot
}

func (sf *Slotframe) search(ts uint16) int {
	return sort.Search(len(sf.links), func(i int) bool {
		return sf.links[i].Timeslot >= ts
	})
}

func (sf *Slotframe) linkAt(ts uint16) *Link {
	i := sf.search(ts)
	if i < len(sf.links) && sf.links[i].Timeslot == ts {
		return sf.links[i]
	}
	return nil
}

func (sf *Slotframe) insert(l *Link) {
	i := sf.search(l.Timeslot)
	sf.links = append(sf.links, nil)
	copy(sf.links[i+1:], sf.links[i:])
	sf.links[i] = l
}

func (sf *Slotframe) remove(l *Link) bool {
	i := sf.search(l.Timeslot)
	if i < len(sf.links) && sf.links[i] == l {
		sf.links = append(sf.links[:i], sf.links[i+1:]...)
		return true
	}
	return false
}

// Len returns the number of links in the slotframe.
func (sf *Slotframe) Len() int {
	return len(sf.links)
}
