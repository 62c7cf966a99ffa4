/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import (
	"testing"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParams(t *testing.T) {
	defer core.ResetConfig()
	require.NoError(t, core.LoadConfigString(`
[gtsf]
variant = "zoul"
slotframe_length = 17
hopping_sequence = [15, 25, 26, 20]
max_links = 4
timeout_ms = 500
backoff_ticks = 0
`))
	p, err := LoadParams()
	require.NoError(t, err)
	assert.Equal(t, VariantZoul, p.Variant)
	assert.Equal(t, uint16(17), p.SlotframeLength)
	assert.Equal(t, []uint16{15, 25, 26, 20}, p.HoppingSequence)
	assert.Equal(t, 4, p.MaxLinks)
	assert.Equal(t, 500*time.Millisecond, p.Timeout)
	assert.Equal(t, 0, p.BackoffTicks)
	// Unset keys keep their defaults.
	assert.Equal(t, 2, p.AdvLinks)
	assert.Equal(t, 1, p.GenerationSlots)
}

func TestValidateParams(t *testing.T) {
	p := DefaultParams()
	assert.NoError(t, p.Validate())

	p.Variant = "orchestra"
	assert.ErrorIs(t, p.Validate(), ErrInvalidVariant)

	p = DefaultParams()
	p.HoppingSequence = nil
	assert.ErrorIs(t, p.Validate(), core.ErrBadConfig)

	p = DefaultParams()
	p.MaxLinks = 0
	assert.ErrorIs(t, p.Validate(), core.ErrBadConfig)

	defer core.ResetConfig()
	require.NoError(t, core.LoadConfigString("[gtsf]\nvariant = \"other\"\n"))
	_, err := LoadParams()
	assert.ErrorIs(t, err, ErrInvalidVariant)
}

func TestLoadParamsRejectsBadValues(t *testing.T) {
	defer core.ResetConfig()
	for _, doc := range []string{
		"slotframe_length = 0",
		"slotframe_length = 70000",
		"sfid = 300",
		"sfid = -1",
		"hopping_sequence = [-1, 3]",
		"hopping_sequence = [\"a\"]",
		"default_channel = 65536",
		"max_links = 0",
		"timeout_ms = \"fast\"",
		"variant = 3",
	} {
		require.NoError(t, core.LoadConfigString("[gtsf]\n"+doc+"\n"), doc)
		_, err := LoadParams()
		assert.ErrorIs(t, err, core.ErrBadConfig, doc)
	}

	require.NoError(t, core.LoadConfigString("[gtsf]\nsfid = 255\ndefault_channel = 0\n"))
	p, err := LoadParams()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), p.SFID)
	assert.Equal(t, uint16(0), p.DefaultChannel)
}
