/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */
package node

import "errors"

// Node errors.
var (
	ErrNoNodeID = errors.New("node ID must be set")
	ErrNoParent = errors.New("node without a parent must be the coordinator")
)
