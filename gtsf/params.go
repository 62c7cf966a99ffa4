/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import (
	"math"
	"time"

	"github.com/gttsch/gtsf/core"
)

// Variant selects the constants of the scheduling function.
type Variant string

const (
	// VariantGT is the GT-TSCH deployment: the coordinator hands its children channel nodeID%8 and keeps the
	// last timeslot shared.
	VariantGT Variant = "gt"
	// VariantZoul is the Zolertia deployment: children channel 1 and no shared timeslot.
	VariantZoul Variant = "zoul"
)

// Params holds the scheduling function constants of a node.
type Params struct {
	Variant         Variant
	SFID            uint8
	SlotframeLength uint16
	HoppingSequence []uint16
	DefaultChannel  uint16
	// MaxLinks caps every cell list the engine builds.
	MaxLinks int
	// GenerationSlots is the number of TX cells reserved for locally generated traffic.
	GenerationSlots int
	AdvLinks        int
	Timeout         time.Duration
	// BackoffTicks bounds the random number of ticks skipped after a peer answers busy.
	BackoffTicks int
}

// DefaultParams returns the parameters of the GT-TSCH deployment.
func DefaultParams() Params {
	return Params{
		Variant:         VariantGT,
		SFID:            0x00,
		SlotframeLength: 32,
		HoppingSequence: []uint16{17, 23, 15, 25, 19, 11, 13, 21},
		DefaultChannel:  0,
		MaxLinks:        20,
		GenerationSlots: 1,
		AdvLinks:        2,
		Timeout:         2 * time.Second,
		BackoffTicks:    3,
	}
}

// LoadParams reads the scheduling function parameters from the configuration. A key holding a value of the wrong
// type or out of range is reported as core.ErrBadConfig.
func LoadParams() (Params, error) {
	p := DefaultParams()
	var err error
	getInt := func(key string, def int, min int, max int) int {
		v, e := core.GetConfigIntRange(key, def, min, max)
		if err == nil {
			err = e
		}
		return v
	}

	variant, e := core.GetConfigString("gtsf.variant", string(p.Variant))
	err = e
	p.Variant = Variant(variant)
	p.SFID = uint8(getInt("gtsf.sfid", int(p.SFID), 0, math.MaxUint8))
	p.SlotframeLength = uint16(getInt("gtsf.slotframe_length", int(p.SlotframeLength), 1, math.MaxUint16))
	seq, e := core.GetConfigArrayIntRange("gtsf.hopping_sequence", 0, math.MaxUint16)
	if err == nil {
		err = e
	}
	if len(seq) > 0 {
		p.HoppingSequence = make([]uint16, len(seq))
		for i, ch := range seq {
			p.HoppingSequence[i] = uint16(ch)
		}
	}
	p.DefaultChannel = uint16(getInt("gtsf.default_channel", int(p.DefaultChannel), 0, math.MaxUint16))
	p.MaxLinks = getInt("gtsf.max_links", p.MaxLinks, 1, math.MaxInt32)
	p.GenerationSlots = getInt("gtsf.generation_slots", p.GenerationSlots, 0, math.MaxInt32)
	p.AdvLinks = getInt("gtsf.adv_links", p.AdvLinks, 1, math.MaxInt32)
	p.Timeout = time.Duration(getInt("gtsf.timeout_ms", int(p.Timeout/time.Millisecond), 1, math.MaxInt32)) * time.Millisecond
	p.BackoffTicks = getInt("gtsf.backoff_ticks", p.BackoffTicks, 0, math.MaxInt32)
	if err != nil {
		return p, err
	}
	return p, p.Validate()
}

// Validate checks that the parameters are usable.
func (p *Params) Validate() error {
	switch {
	case p.Variant != VariantGT && p.Variant != VariantZoul:
		return ErrInvalidVariant
	case p.SlotframeLength == 0, len(p.HoppingSequence) == 0, p.MaxLinks < 1, p.AdvLinks < 1,
		p.GenerationSlots < 0, p.Timeout <= 0, p.BackoffTicks < 0:
		return core.ErrBadConfig
	}
	return nil
}
