/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */
package node

import (
	"math"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/gtsf"
)

// Config holds the settings of a node.
type Config struct {
	ID          uint16
	Coordinator bool
	// Parent is the node ID of the time source; 0 on the coordinator.
	Parent uint16
	// ParentChannel is the channel the parent schedules its children on, or 0 to learn it from the first
	// advertising cells.
	ParentChannel uint16
	TickInterval  time.Duration
	Params        gtsf.Params
}

// DefaultConfig returns the settings of an unconfigured node.
func DefaultConfig() Config {
	return Config{
		TickInterval: time.Second,
		Params:       gtsf.DefaultParams(),
	}
}

// LoadConfig reads the node settings from the configuration. Values of the wrong type or out of range are reported
// as core.ErrBadConfig; otherwise only the scheduling function parameters are validated, so that command line
// settings can still be applied.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	var err error
	getUint16 := func(key string, def uint16) uint16 {
		v, e := core.GetConfigUint16(key, def)
		if err == nil {
			err = e
		}
		return v
	}

	cfg.ID = getUint16("node.id", cfg.ID)
	cfg.Parent = getUint16("node.parent", cfg.Parent)
	cfg.ParentChannel = getUint16("node.parent_channel", cfg.ParentChannel)
	coordinator, e := core.GetConfigBool("node.coordinator", cfg.Coordinator)
	if err == nil {
		err = e
	}
	cfg.Coordinator = coordinator
	tick, e := core.GetConfigIntRange("node.tick_ms", int(cfg.TickInterval/time.Millisecond), 1, math.MaxInt32)
	if err == nil {
		err = e
	}
	cfg.TickInterval = time.Duration(tick) * time.Millisecond
	if err != nil {
		return cfg, err
	}

	params, err := gtsf.LoadParams()
	if err != nil {
		return cfg, err
	}
	cfg.Params = params
	return cfg, nil
}

// Validate checks that the settings describe a usable node.
func (c *Config) Validate() error {
	switch {
	case c.ID == 0:
		return ErrNoNodeID
	case !c.Coordinator && c.Parent == 0:
		return ErrNoParent
	case c.TickInterval <= 0:
		return core.ErrBadConfig
	}
	return c.Params.Validate()
}
