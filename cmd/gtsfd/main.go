/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Command gtsfd runs the GT-TSCH scheduling function daemon.
package main

import (
	"os"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/executor"
)

// Version of GTSF.
var Version string

// BuildTime contains the timestamp of when the version of GTSF was built.
var BuildTime string

func main() {
	core.BuildTime = BuildTime
	executor.Main(os.Args, Version)
}
