/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cornelk/hashmap"
)

// Measurements holds the counters and moving averages of a node.
type Measurements struct {
	table *hashmap.HashMap
}

// NewMeasurements creates an empty measurements table.
func NewMeasurements() *Measurements {
	return &Measurements{table: hashmap.New(32)}
}

// Get returns the measurement table value at the specified key or nil if it does not exist.
func (m *Measurements) Get(key string) interface{} {
	value, isOk := m.table.GetStringKey(key)
	if !isOk {
		return nil
	}
	return value
}

// Set atomically sets the value of the specified measurement table key only if it is equal to the expected value, returning whether the operation was successful.
func (m *Measurements) Set(key string, expected interface{}, value interface{}) bool {
	return m.table.Cas(key, expected, value)
}

// Int returns the integer measurement at key, or 0 if unset.
func (m *Measurements) Int(key string) int {
	if v, ok := m.Get(key).(int); ok {
		return v
	}
	return 0
}

// Float returns the floating-point measurement at key, or 0 if unset.
func (m *Measurements) Float(key string) float64 {
	if v, ok := m.Get(key).(float64); ok {
		return v
	}
	return 0
}

// SetInt stores value at key, replacing any previous value.
func (m *Measurements) SetInt(key string, value int) {
	m.table.Set(key, value)
}

// AddInt adds the specified value to the given measurement key, setting as value if unitialized.
func (m *Measurements) AddInt(key string, value int) {
	wasSet := false
	for !wasSet {
		expected := m.Get(key)
		if expected != nil {
			wasSet = m.Set(key, expected, expected.(int)+value)
		} else {
			_, wasSet = m.table.GetOrInsert(key, value)
			// We need to flip this because it returns false if set
			wasSet = !wasSet
		}
	}
}

// AddSampleToEWMA adds a sample to an exponentially weighted moving average
func (m *Measurements) AddSampleToEWMA(key string, measurement float64, alpha float64) {
	wasSet := false
	for !wasSet {
		expected := m.Get(key)
		if expected != nil {
			newValue := expected.(float64) + alpha*(measurement-expected.(float64))
			wasSet = m.Set(key, expected, newValue)
		} else {
			_, wasSet = m.table.GetOrInsert(key, measurement)
			// We need to flip this because it returns false if set
			wasSet = !wasSet
		}
	}
}

// Keys returns all measurement keys in lexical order.
func (m *Measurements) Keys() []string {
	keys := make([]string, 0, m.table.Len())
	for kv := range m.table.Iter() {
		keys = append(keys, kv.Key.(string))
	}
	sort.Strings(keys)
	return keys
}

func (m *Measurements) String() string {
	var b strings.Builder
	for i, key := range m.Keys() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(key)
		b.WriteString("=")
		switch v := m.Get(key).(type) {
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
		case int:
			b.WriteString(strconv.Itoa(v))
		}
	}
	return b.String()
}
