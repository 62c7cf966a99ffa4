/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "time"

// Version of the daemon.
var Version string

// BuildTime contains the timestamp of when the version of the daemon was built.
var BuildTime string

// StartTimestamp is the time the daemon was started.
var StartTimestamp time.Time
