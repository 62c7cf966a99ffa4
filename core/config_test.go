/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core_test

import (
	"testing"

	"github.com/gttsch/gtsf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigGetters(t *testing.T) {
	defer core.ResetConfig()
	require.NoError(t, core.LoadConfigString(`
[core]
log_level = "DEBUG"
[faces]
queue_size = 16
[faces.udp]
port = 70000
[gtsf]
hopping_sequence = [17, 23]
coordinator = true
names = ["a", "b"]
`))
	assert.Equal(t, "DEBUG", core.GetConfigStringDefault("core.log_level", "INFO"))
	size, err := core.GetConfigIntRange("faces.queue_size", 64, 1, 1024)
	require.NoError(t, err)
	assert.Equal(t, 16, size)
	seq, err := core.GetConfigArrayIntRange("gtsf.hopping_sequence", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []int{17, 23}, seq)
	coordinator, err := core.GetConfigBool("gtsf.coordinator", false)
	require.NoError(t, err)
	assert.True(t, coordinator)
	assert.Equal(t, []string{"a", "b"}, core.GetConfigArrayString("gtsf.names"))

	missing, err := core.GetConfigIntRange("missing.key", 3, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, missing)
	assert.Equal(t, "x", core.GetConfigStringDefault("faces.queue_size", "x"))
}

func TestConfigCheckedGetters(t *testing.T) {
	defer core.ResetConfig()
	require.NoError(t, core.LoadConfigString(`
[faces]
queue_size = 16
[faces.udp]
port = 70000
[gtsf]
hopping_sequence = [17, -1]
names = ["a", "b"]
coordinator = "yes"
`))
	// Out of range for a port.
	port, err := core.GetConfigUint16("faces.udp.port", 6464)
	assert.ErrorIs(t, err, core.ErrBadConfig)
	assert.Equal(t, uint16(6464), port)

	size, err := core.GetConfigIntRange("faces.queue_size", 64, 1, 8)
	assert.ErrorIs(t, err, core.ErrBadConfig)
	assert.Equal(t, 64, size)
	size, err = core.GetConfigIntRange("faces.queue_size", 64, 1, 32)
	assert.NoError(t, err)
	assert.Equal(t, 16, size)

	missing, err := core.GetConfigUint16("faces.missing", 7)
	assert.NoError(t, err)
	assert.Equal(t, uint16(7), missing)

	_, err = core.GetConfigArrayIntRange("gtsf.hopping_sequence", 0, 100)
	assert.ErrorIs(t, err, core.ErrBadConfig)
	_, err = core.GetConfigArrayIntRange("gtsf.names", 0, 100)
	assert.ErrorIs(t, err, core.ErrBadConfig)
	seq, err := core.GetConfigArrayIntRange("gtsf.missing", 0, 100)
	assert.NoError(t, err)
	assert.Nil(t, seq)

	_, err = core.GetConfigBool("gtsf.coordinator", false)
	assert.ErrorIs(t, err, core.ErrBadConfig)
	_, err = core.GetConfigString("faces.queue_size", "x")
	assert.ErrorIs(t, err, core.ErrBadConfig)
}

func TestConfigReset(t *testing.T) {
	require.NoError(t, core.LoadConfigString("[faces]\nqueue_size = 16\n"))
	core.ResetConfig()
	size, err := core.GetConfigIntRange("faces.queue_size", 64, 1, 1024)
	assert.NoError(t, err)
	assert.Equal(t, 64, size)
	seq, err := core.GetConfigArrayIntRange("gtsf.hopping_sequence", 0, 100)
	assert.NoError(t, err)
	assert.Nil(t, seq)

	assert.Error(t, core.LoadConfigString("not = [valid"))
}
