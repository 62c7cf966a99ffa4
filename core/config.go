/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"fmt"
	"math"

	"github.com/pelletier/go-toml"
)

var config *toml.Tree

// LoadConfig loads the daemon configuration from the specified configuration file.
func LoadConfig(file string) {
	var err error
	config, err = toml.LoadFile(file)
	if err != nil {
		LogFatal("Config", "Unable to load configuration file: ", err)
	}
}

// LoadConfigString loads the configuration from a TOML document held in memory.
func LoadConfigString(doc string) error {
	tree, err := toml.Load(doc)
	if err != nil {
		return err
	}
	config = tree
	return nil
}

// ResetConfig drops any loaded configuration, so that every getter returns its default.
func ResetConfig() {
	config = nil
}

func getConfig(key string) interface{} {
	if config == nil {
		return nil
	}
	return config.Get(key)
}

// GetConfigStringDefault returns the string configuration value at the specified key or the specified default value if it does not exist.
func GetConfigStringDefault(key string, def string) string {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(string)
	if ok {
		return val
	}
	return def
}

func badConfig(key string, val interface{}) error {
	return fmt.Errorf("%s = %v: %w", key, val, ErrBadConfig)
}

// GetConfigIntRange returns the integer configuration value at the specified key or the specified default value if
// it does not exist. A value that is present but not an integer in [min, max] is reported as ErrBadConfig.
func GetConfigIntRange(key string, def int, min int, max int) (int, error) {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def, nil
	}
	val, ok := valRaw.(int64)
	if !ok || val < int64(min) || val > int64(max) {
		return def, badConfig(key, valRaw)
	}
	return int(val), nil
}

// GetConfigUint16 returns the configuration value at the specified key as a uint16, or the specified default value if
// it does not exist. A value that is present but out of range is reported as ErrBadConfig.
func GetConfigUint16(key string, def uint16) (uint16, error) {
	val, err := GetConfigIntRange(key, int(def), 0, math.MaxUint16)
	return uint16(val), err
}

// GetConfigString returns the string configuration value at the specified key or the specified default value if it
// does not exist. A value of another type is reported as ErrBadConfig.
func GetConfigString(key string, def string) (string, error) {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def, nil
	}
	val, ok := valRaw.(string)
	if !ok {
		return def, badConfig(key, valRaw)
	}
	return val, nil
}

// GetConfigBool returns the boolean configuration value at the specified key or the specified default value if it
// does not exist. A value of another type is reported as ErrBadConfig.
func GetConfigBool(key string, def bool) (bool, error) {
	valRaw := getConfig(key)
	if valRaw == nil {
		return def, nil
	}
	val, ok := valRaw.(bool)
	if !ok {
		return def, badConfig(key, valRaw)
	}
	return val, nil
}

// GetConfigArrayString returns the configuration array value at the specified key or nil if it does not exist.
func GetConfigArrayString(key string) []string {
	if config == nil {
		return nil
	}
	array := config.GetArray(key)
	if array == nil {
		return nil
	}
	if val, ok := array.([]string); ok {
		return val
	}
	return nil
}

// GetConfigArrayIntRange returns the integer array at the specified key, or nil if it does not exist. An array
// holding anything but integers in [min, max] is reported as ErrBadConfig.
func GetConfigArrayIntRange(key string, min int, max int) ([]int, error) {
	valRaw := getConfig(key)
	if valRaw == nil {
		return nil, nil
	}
	raw, ok := config.GetArray(key).([]int64)
	if !ok {
		return nil, badConfig(key, valRaw)
	}
	vals := make([]int, 0, len(raw))
	for _, v := range raw {
		if v < int64(min) || v > int64(max) {
			return nil, badConfig(key, valRaw)
		}
		vals = append(vals, int(v))
	}
	return vals, nil
}
