/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixtop

import (
	"time"

	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/sixp"
)

// SentStatus is the outcome of sending a 6P message.
type SentStatus int

const (
	// SentSuccess indicates the message was handed to the link.
	SentSuccess SentStatus = iota
	// SentFailure indicates the message could not be sent.
	SentFailure
)

func (s SentStatus) String() string {
	if s == SentSuccess {
		return "success"
	}
	return "failure"
}

// SentHandler is a continuation run once a message has been sent, after the dispatch that sent it returns.
type SentHandler func(dest lladdr.Addr, status SentStatus)

// SchedulingFunction is a 6P scheduling function, identified by its SFID.
type SchedulingFunction interface {
	SFID() uint8
	// TimeoutInterval is how long a transaction started by or for this function may stay open.
	TimeoutInterval() time.Duration
	Init()
	Input(t sixp.Type, code sixp.Code, body []byte, src lladdr.Addr)
	Timeout(cmd sixp.Code, peer lladdr.Addr)
}
