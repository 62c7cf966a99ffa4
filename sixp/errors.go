/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixp

import "errors"

// 6P codec errors.
var (
	ErrHeaderTooShort  = errors.New("6P message shorter than its header")
	ErrBodyTooShort    = errors.New("6P body too short for field")
	ErrNoSuchField     = errors.New("6P message does not carry this field")
	ErrInvalidLength   = errors.New("6P body length invalid for message")
	ErrCellListLength  = errors.New("6P cell list length is not a multiple of the cell size")
	ErrUnsupportedType = errors.New("unsupported 6P message type")
	ErrUnsupportedCode = errors.New("unsupported 6P code")
)
