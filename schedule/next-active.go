/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

// compareLinks picks between two links of the same slotframe active in the same timeslot.
func (s *Schedule) compareLinks(a *Link, b *Link) *Link {
	if !a.Options.Has(OptionTX) {
		return a
	}
	// Two TX links: favor the neighbor with more frames queued
	if a.Addr != b.Addr {
		if s.nbrs.QueueLen(a.Addr) >= s.nbrs.QueueLen(b.Addr) {
			return a
		}
		return b
	}
	return a
}

// NextActiveLink returns the next link to become active after the given ASN, a backup RX link active in the same
// timeslot (if any), and the number of timeslots until then. A link in the current timeslot is a full slotframe away.
// Nothing is returned while the schedule is locked.
func (s *Schedule) NextActiveLink(asn uint64) (best *Link, backup *Link, offset uint16) {
	if s.locked {
		return nil, nil, 0
	}

	var timeToBest uint16
	for _, sf := range s.slotframes {
		ts := uint16(asn % uint64(sf.Length))
		for _, l := range sf.links {
			var timeTo uint16
			if l.Timeslot > ts {
				timeTo = l.Timeslot - ts
			} else {
				timeTo = sf.Length + l.Timeslot - ts
			}

			if best == nil || timeTo < timeToBest {
				timeToBest = timeTo
				best = l
				backup = nil
			} else if timeTo == timeToBest {
				var newBest *Link
				if best.Options.Has(OptionTX) == l.Options.Has(OptionTX) {
					if l.SlotframeHandle != best.SlotframeHandle {
						if l.SlotframeHandle < best.SlotframeHandle {
							newBest = l
						}
					} else {
						newBest = s.compareLinks(best, l)
					}
				} else if l.Options.Has(OptionTX) {
					newBest = l
				}
				if newBest == nil {
					newBest = best
				}

				if backup == nil {
					if newBest != l && l.Options.Has(OptionRX) {
						backup = l
					}
					if newBest != best && best.Options.Has(OptionRX) {
						backup = best
					}
				}
				best = newBest
			}
		}
	}
	return best, backup, timeToBest
}
