/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "errors"

// Error definitions
var (
	ErrBadConfig = errors.New("invalid configuration value")
)
