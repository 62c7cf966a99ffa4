/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package schedule

import "github.com/gttsch/gtsf/lladdr"

// MinimalPeriod is the spacing of shared advertising cells in the minimal schedule.
const MinimalPeriod = 5

// CreateMinimal replaces the schedule with slotframe 0 holding a shared advertising cell every MinimalPeriod
// timeslots on the default channel. On a coordinator, those timeslots are not available for uplinks.
func (s *Schedule) CreateMinimal(length uint16, defaultChannel uint16) (*Slotframe, error) {
	if err := s.RemoveAllSlotframes(); err != nil {
		return nil, err
	}
	sf, err := s.AddSlotframe(0, length)
	if err != nil {
		return nil, err
	}

	installed := 0
	for ts := 0; ts < int(length); ts += MinimalPeriod {
		_, err := s.AddLink(sf, OptionTX|OptionRX|OptionShared, KindAdvertising, lladdr.Broadcast, uint16(ts), defaultChannel)
		if err != nil {
			return nil, err
		}
		installed++
	}
	if s.acct.Coordinator {
		s.acct.FreeUplinkTimeslots -= installed
	}
	return sf, nil
}
