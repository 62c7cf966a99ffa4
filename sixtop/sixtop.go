/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sixtop

import (
	"sort"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/sixp"
)

// Tracer observes every 6P frame sent or received.
type Tracer interface {
	Trace(f face.Frame) error
}

// Sixtop is the 6P transaction layer of a node. It keeps at most one transaction per peer and dispatches
// incoming messages to the scheduling function registered for their SFID. It is not safe for concurrent use.
type Sixtop struct {
	link    face.Link
	sfs     map[uint8]SchedulingFunction
	trans   map[lladdr.Addr]*Transaction
	seqnos  map[lladdr.Addr]uint8
	pending []func()
	clock   func() time.Time
	tracer  Tracer

	NTimeouts uint64
	NDropped  uint64
}

// New creates a transaction layer sending over link.
func New(link face.Link) *Sixtop {
	return &Sixtop{
		link:   link,
		sfs:    make(map[uint8]SchedulingFunction),
		trans:  make(map[lladdr.Addr]*Transaction),
		seqnos: make(map[lladdr.Addr]uint8),
		clock:  time.Now,
	}
}

func (s *Sixtop) String() string {
	return "Sixtop, Addr=" + s.link.LocalAddr().String()
}

// SetClock replaces the clock used for transaction deadlines.
func (s *Sixtop) SetClock(clock func() time.Time) {
	s.clock = clock
}

// SetTracer installs a tracer, or removes it if nil.
func (s *Sixtop) SetTracer(tracer Tracer) {
	s.tracer = tracer
}

// AddSF registers and initializes a scheduling function.
func (s *Sixtop) AddSF(sf SchedulingFunction) error {
	if _, ok := s.sfs[sf.SFID()]; ok {
		return ErrDuplicateSF
	}
	s.sfs[sf.SFID()] = sf
	sf.Init()
	core.LogInfo(s, "Registered scheduling function SFID=", sf.SFID())
	return nil
}

// TransactionCommand returns the command of the transaction open with peer.
func (s *Sixtop) TransactionCommand(peer lladdr.Addr) (sixp.Code, bool) {
	t, ok := s.trans[peer]
	if !ok {
		return 0, false
	}
	return t.Cmd, true
}

// Transaction returns the transaction open with peer, or nil.
func (s *Sixtop) Transaction(peer lladdr.Addr) *Transaction {
	return s.trans[peer]
}

// Transactions returns the number of open transactions.
func (s *Sixtop) Transactions() int {
	return len(s.trans)
}

// Output sends a 6P message. A request opens a transaction with dest; a response closes the transaction
// dest opened. onSent, if not nil, runs on the next Flush.
func (s *Sixtop) Output(t sixp.Type, code sixp.Code, sfid uint8, body []byte, dest lladdr.Addr, onSent SentHandler) error {
	sf, ok := s.sfs[sfid]
	if !ok {
		return ErrUnknownSF
	}

	switch t {
	case sixp.TypeRequest:
		if _, busy := s.trans[dest]; busy {
			return ErrBusy
		}
		seqno := s.seqnos[dest]
		trans := &Transaction{
			Peer:     dest,
			SFID:     sfid,
			Cmd:      code,
			SeqNo:    seqno,
			Role:     RoleInitiator,
			Deadline: s.clock().Add(sf.TimeoutInterval()),
		}
		s.trans[dest] = trans
		if err := s.send(t, code, sfid, seqno, body, dest); err != nil {
			delete(s.trans, dest)
			return err
		}
		s.seqnos[dest] = seqno + 1
		core.LogDebug(s, "Opened ", trans)
	case sixp.TypeResponse:
		trans, ok := s.trans[dest]
		if !ok || trans.Role != RoleResponder || trans.SFID != sfid {
			return ErrNoTransaction
		}
		delete(s.trans, dest)
		if err := s.send(t, code, sfid, trans.SeqNo, body, dest); err != nil {
			return err
		}
		core.LogDebug(s, "Closed ", trans)
	default:
		return ErrNoTransaction
	}

	if onSent != nil {
		s.pending = append(s.pending, func() { onSent(dest, SentSuccess) })
	}
	return nil
}

func (s *Sixtop) send(t sixp.Type, code sixp.Code, sfid uint8, seqno uint8, body []byte, dest lladdr.Addr) error {
	wire, err := sixp.Create(t, code, sfid, seqno, body)
	if err != nil {
		return err
	}
	f := face.Frame{Dst: dest, Src: s.link.LocalAddr(), Payload: wire}
	if s.tracer != nil {
		if err := s.tracer.Trace(f); err != nil {
			core.LogWarn(s, "Unable to trace frame: ", err)
		}
	}
	core.LogTrace(s, "Sending 6P ", t, " ", sixp.CodeString(t, code), " to ", dest)
	return s.link.Send(f)
}

// HandleFrame decodes a received frame and dispatches the 6P message it carries.
func (s *Sixtop) HandleFrame(f face.Frame) {
	if s.tracer != nil {
		if err := s.tracer.Trace(f); err != nil {
			core.LogWarn(s, "Unable to trace frame: ", err)
		}
	}
	pkt, err := sixp.Parse(f.Payload)
	if err != nil {
		core.LogWarn(s, "Unable to decode 6P message from ", f.Src, " (", err, ") - DROP")
		s.NDropped++
		return
	}
	s.Input(pkt, f.Src)
}

// Input dispatches a decoded 6P message received from src.
func (s *Sixtop) Input(pkt *sixp.Packet, src lladdr.Addr) {
	core.LogTrace(s, "Received ", pkt, " from ", src)

	if pkt.Type == sixp.TypeRequest {
		s.inputRequest(pkt, src)
		return
	}

	trans, ok := s.trans[src]
	if !ok || trans.Role != RoleInitiator {
		core.LogTrace(s, "No transaction open with ", src, " - DROP")
		s.NDropped++
		return
	}
	if trans.SeqNo != pkt.SeqNo || trans.SFID != pkt.SFID {
		core.LogDebug(s, "Response from ", src, " does not match ", trans, " - DROP")
		s.NDropped++
		return
	}
	s.sfs[trans.SFID].Input(pkt.Type, pkt.Code, pkt.Body, src)
	if s.trans[src] == trans {
		delete(s.trans, src)
		core.LogDebug(s, "Closed ", trans)
	}
}

func (s *Sixtop) inputRequest(pkt *sixp.Packet, src lladdr.Addr) {
	if pkt.Version != sixp.Version {
		s.reject(pkt, src, sixp.RcErrVersion)
		return
	}
	sf, ok := s.sfs[pkt.SFID]
	if !ok {
		s.reject(pkt, src, sixp.RcErrSFID)
		return
	}
	if _, busy := s.trans[src]; busy {
		s.reject(pkt, src, sixp.RcErrBusy)
		return
	}

	trans := &Transaction{
		Peer:     src,
		SFID:     pkt.SFID,
		Cmd:      pkt.Code,
		SeqNo:    pkt.SeqNo,
		Role:     RoleResponder,
		Deadline: s.clock().Add(sf.TimeoutInterval()),
	}
	s.trans[src] = trans
	core.LogDebug(s, "Opened ", trans)
	sf.Input(pkt.Type, pkt.Code, pkt.Body, src)
}

// reject answers a request outside of any transaction.
func (s *Sixtop) reject(pkt *sixp.Packet, src lladdr.Addr, rc sixp.Code) {
	core.LogDebug(s, "Rejecting ", pkt, " from ", src, " with ", sixp.CodeString(sixp.TypeResponse, rc))
	if err := s.send(sixp.TypeResponse, rc, pkt.SFID, pkt.SeqNo, nil, src); err != nil {
		core.LogWarn(s, "Unable to send ", sixp.CodeString(sixp.TypeResponse, rc), " to ", src, ": ", err)
	}
}

// Expire closes every transaction whose deadline has passed and reports it to its scheduling function.
func (s *Sixtop) Expire(now time.Time) int {
	var expired []*Transaction
	for _, t := range s.trans {
		if t.expired(now) {
			expired = append(expired, t)
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].Peer.NodeID() < expired[j].Peer.NodeID()
	})
	for _, t := range expired {
		delete(s.trans, t.Peer)
		s.NTimeouts++
		core.LogDebug(s, "Timed out ", t)
		s.sfs[t.SFID].Timeout(t.Cmd, t.Peer)
	}
	return len(expired)
}

// Flush runs queued continuations until none remain, including any queued while flushing.
func (s *Sixtop) Flush() int {
	n := 0
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		next()
		n++
	}
	return n
}
