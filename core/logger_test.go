/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel("INFO")

	SetLogLevel("TRACE")
	assert.Equal(t, levelTrace, logLevel)
	SetLogLevel("warn")
	assert.Equal(t, log.WarnLevel, logLevel)
	SetLogLevel("loud")
	assert.Equal(t, log.InfoLevel, logLevel)
}

func TestGenerateLogMessage(t *testing.T) {
	msg := generateLogMessage("Main", "cells=", 3, " ch=", uint16(7), " ", errors.New("busy"))
	assert.Equal(t, "[Main] cells=3 ch=7 busy", msg)
}
