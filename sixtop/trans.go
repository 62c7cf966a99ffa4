/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixtop

import (
	"strconv"
	"time"

	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/sixp"
)

// Role is the side of a transaction the local node plays.
type Role int

const (
	// RoleInitiator is the node that sent the request.
	RoleInitiator Role = iota
	// RoleResponder is the node that received the request.
	RoleResponder
)

func (r Role) String() string {
	if r == RoleInitiator {
		return "initiator"
	}
	return "responder"
}

// Transaction is an open 6P transaction with a peer.
type Transaction struct {
	Peer     lladdr.Addr
	SFID     uint8
	Cmd      sixp.Code
	SeqNo    uint8
	Role     Role
	Deadline time.Time
}

func (t *Transaction) String() string {
	return "Transaction " + sixp.CodeString(sixp.TypeRequest, t.Cmd) + " peer=" + t.Peer.String() +
		" seqno=" + strconv.Itoa(int(t.SeqNo)) + " role=" + t.Role.String()
}

func (t *Transaction) expired(now time.Time) bool {
	return !now.Before(t.Deadline)
}
