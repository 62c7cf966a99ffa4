/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package gtsf

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/cespare/xxhash"
	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/schedule"
	"github.com/gttsch/gtsf/sixp"
	"github.com/gttsch/gtsf/sixtop"
	"github.com/gttsch/gtsf/table"
)

// Transport is the 6P transaction layer used by the engine.
type Transport interface {
	Output(t sixp.Type, code sixp.Code, sfid uint8, body []byte, dest lladdr.Addr, onSent sixtop.SentHandler) error
	TransactionCommand(peer lladdr.Addr) (sixp.Code, bool)
}

// State is the negotiation state of a node.
type State struct {
	*schedule.Accounting

	// ChildrenChannel is the channel offset of the cells this node schedules with its children. 0 until assigned.
	ChildrenChannel uint16
	DefaultChannel  uint16
	// SharedTimeslot is the timeslot shared with children, or -1.
	SharedTimeslot int

	AdvTimeslots   int
	CheckAskUplink bool

	Backlog  *table.SendBack
	TwoHop   *table.TwoHopCache
	Reserved *table.ReservedCells
}

// Engine is the GT-TSCH scheduling function of one node.
type Engine struct {
	State
	params Params
	addr   lladdr.Addr

	sched     *schedule.Schedule
	nbrs      *table.NeighborTable
	meas      *table.Measurements
	transport Transport

	rng     *rand.Rand
	backoff int
}

var _ sixtop.SchedulingFunction = &Engine{}

// New creates the scheduling function of the node with address addr.
func New(params Params, addr lladdr.Addr, sched *schedule.Schedule, nbrs *table.NeighborTable, meas *table.Measurements) *Engine {
	e := &Engine{
		State: State{
			Accounting:     sched.Accounting(),
			DefaultChannel: params.DefaultChannel,
			SharedTimeslot: -1,
			Backlog:        table.NewSendBack(table.SendBackCapacity),
			TwoHop:         table.NewTwoHopCache(table.TwoHopCacheCapacity),
			Reserved:       table.NewReservedCells(table.ReservedCellsCapacity),
		},
		params: params,
		addr:   addr,
		sched:  sched,
		nbrs:   nbrs,
		meas:   meas,
		rng:    rand.New(rand.NewSource(int64(xxhash.Sum64(addr[:])))),
	}
	e.GenerationTarget = params.GenerationSlots
	return e
}

func (e *Engine) String() string {
	return "GTSF, Node=" + strconv.Itoa(int(e.addr.NodeID()))
}

// SetTransport sets the transaction layer used to send messages.
func (e *Engine) SetTransport(t Transport) {
	e.transport = t
}

// Params returns the parameters of the engine.
func (e *Engine) Params() Params {
	return e.params
}

// Schedule returns the schedule managed by the engine.
func (e *Engine) Schedule() *schedule.Schedule {
	return e.sched
}

// Measurements returns the counters of the engine.
func (e *Engine) Measurements() *table.Measurements {
	return e.meas
}

// SFID returns the scheduling function identifier.
func (e *Engine) SFID() uint8 {
	return e.params.SFID
}

// TimeoutInterval returns the transaction timeout.
func (e *Engine) TimeoutInterval() time.Duration {
	return e.params.Timeout
}

// Init resets the channel cache and applies the role-dependent initial state.
func (e *Engine) Init() {
	e.TwoHop.Clear()
	if e.Coordinator {
		switch e.params.Variant {
		case VariantZoul:
			e.ChildrenChannel = 1
			e.SharedTimeslot = -1
		default:
			e.ChildrenChannel = e.addr.NodeID() % 8
			if e.ChildrenChannel == 0 {
				// Channel 0 means unassigned.
				e.ChildrenChannel = 1
			}
			e.SharedTimeslot = int(e.params.SlotframeLength) - 1
		}
		e.ParentChannel = e.ChildrenChannel
		e.GenerationSatisfied = true
		e.FreeUplinkTimeslots = int(e.params.SlotframeLength)
	} else {
		e.RequiredSlots = e.GenerationTarget
		e.GenerationSatisfied = e.GenerationTarget == 0
		e.CheckAskUplink = true
	}
	core.LogInfo(e, "Initialized coordinator=", e.Coordinator, " children_channel=", e.ChildrenChannel,
		" ", e.Accounting)
}

// SetTimeSource records the node's parent and, if known, the channel it schedules its children on.
func (e *Engine) SetTimeSource(addr lladdr.Addr, ch uint16) {
	e.TimeSource = addr
	n := e.nbrs.Add(addr)
	if ch != 0 {
		e.ParentChannel = ch
		n.FrequencyOffset = ch
	}
	core.LogInfo(e, "Time source ", addr, " parent_channel=", e.ParentChannel)
}

// HasTimeSource returns whether the node has joined a parent.
func (e *Engine) HasTimeSource() bool {
	return !e.TimeSource.IsNull()
}

func (e *Engine) slotframe() (*schedule.Slotframe, error) {
	sf := e.sched.Slotframe(0)
	if sf == nil {
		if e.sched.IsLocked() {
			return nil, schedule.ErrLocked
		}
		return nil, ErrNoSlotframe
	}
	return sf, nil
}

// Input dispatches a message delivered by the transaction layer.
func (e *Engine) Input(t sixp.Type, code sixp.Code, body []byte, src lladdr.Addr) {
	e.meas.AddInt("rx."+sixp.CodeString(t, code), 1)
	switch t {
	case sixp.TypeRequest:
		e.requestInput(code, body, src)
	case sixp.TypeResponse:
		e.responseInput(code, body, src)
	default:
		core.LogDebug(e, "Unsupported message type ", t, " from ", src, " - DROP")
	}
}

func (e *Engine) requestInput(cmd sixp.Code, body []byte, peer lladdr.Addr) {
	core.LogDebug(e, "Received ", sixp.CodeString(sixp.TypeRequest, cmd), " request from ", peer.NodeID())
	switch cmd {
	case sixp.CmdAskChannel:
		e.askChannelRequest(body, peer)
	case sixp.CmdAddUplinks:
		e.addUplinksRequest(body, peer)
	case sixp.CmdAddDownlinks:
		e.addDownlinksRequest(body, peer)
	case sixp.CmdDeleteDownlink:
		e.deleteDownlinkRequest(body, peer)
	case sixp.CmdDeleteUplink:
		e.deleteUplinkRequest(body, peer)
	case sixp.CmdAskAdvLink:
		e.askAdvLinkRequest(body, peer)
	case sixp.CmdCount:
		e.countRequest(body, peer)
	case sixp.CmdList:
		e.listRequest(body, peer)
	case sixp.CmdClear:
		e.clearRequest(peer)
	case sixp.CmdSignal:
		e.signalRequest(body, peer)
	default:
		core.LogWarn(e, "Unsupported request ", sixp.CodeString(sixp.TypeRequest, cmd), " from ", peer, " - DROP")
	}
}

func (e *Engine) responseInput(rc sixp.Code, body []byte, peer lladdr.Addr) {
	cmd, ok := e.transport.TransactionCommand(peer)
	if !ok {
		core.LogTrace(e, "No transaction with ", peer, " - DROP")
		return
	}
	if rc == sixp.RcErrBusy || rc == sixp.RcErrLocked {
		if e.params.BackoffTicks > 0 {
			e.backoff = 1 + e.rng.Intn(e.params.BackoffTicks)
		}
		core.LogDebug(e, sixp.CodeString(sixp.TypeRequest, cmd), " refused by ", peer.NodeID(), " (",
			sixp.CodeString(sixp.TypeResponse, rc), "), backing off ", e.backoff, " ticks")
		return
	}
	if rc != sixp.RcSuccess && !(rc == sixp.RcEOL && cmd == sixp.CmdList) {
		core.LogDebug(e, sixp.CodeString(sixp.TypeRequest, cmd), " failed at ", peer.NodeID(), ": ",
			sixp.CodeString(sixp.TypeResponse, rc))
		return
	}

	switch cmd {
	case sixp.CmdAddUplinks:
		e.addUplinksResponse(body, peer)
	case sixp.CmdAskAdvLink:
		e.askAdvLinkResponse(body, peer)
	case sixp.CmdAskChannel:
		e.askChannelResponse(body, peer)
	case sixp.CmdCount:
		e.countResponse(body, peer)
	case sixp.CmdList:
		e.listResponse(rc, body, peer)
	case sixp.CmdClear:
		e.clearResponse(peer)
	case sixp.CmdAddDownlinks, sixp.CmdDeleteUplink, sixp.CmdDeleteDownlink, sixp.CmdSignal:
		// Acknowledgements; their effects are applied once the request is sent.
	default:
		core.LogWarn(e, "Unsupported response to ", sixp.CodeString(sixp.TypeRequest, cmd), " from ", peer)
	}
}

// Timeout is called when a transaction expires without an answer.
func (e *Engine) Timeout(cmd sixp.Code, peer lladdr.Addr) {
	e.meas.AddInt("timeout", 1)
	core.LogDebug(e, sixp.CodeString(sixp.TypeRequest, cmd), " with ", peer.NodeID(), " timed out")
}

// respond answers the open transaction with peer, logging failures.
func (e *Engine) respond(rc sixp.Code, body []byte, peer lladdr.Addr, onSent sixtop.SentHandler) bool {
	if err := e.transport.Output(sixp.TypeResponse, rc, e.params.SFID, body, peer, onSent); err != nil {
		core.LogWarn(e, "Unable to send ", sixp.CodeString(sixp.TypeResponse, rc), " response to ", peer, ": ", err)
		return false
	}
	return true
}

// request opens a transaction with peer.
func (e *Engine) request(cmd sixp.Code, body []byte, peer lladdr.Addr, onSent sixtop.SentHandler) error {
	if err := e.transport.Output(sixp.TypeRequest, cmd, e.params.SFID, body, peer, onSent); err != nil {
		core.LogDebug(e, "Unable to send ", sixp.CodeString(sixp.TypeRequest, cmd), " to ", peer.NodeID(), ": ", err)
		return err
	}
	e.meas.AddInt("tx."+sixp.CodeString(sixp.TypeRequest, cmd), 1)
	core.LogDebug(e, "Sent ", sixp.CodeString(sixp.TypeRequest, cmd), " to ", peer.NodeID())
	return nil
}

// successful filters continuations to successfully sent messages.
func successful(fn func(dest lladdr.Addr)) sixtop.SentHandler {
	return func(dest lladdr.Addr, status sixtop.SentStatus) {
		if status == sixtop.SentSuccess {
			fn(dest)
		}
	}
}

func toCells(links []*schedule.Link) []sixp.Cell {
	cells := make([]sixp.Cell, len(links))
	for i, l := range links {
		cells[i] = sixp.Cell{Timeslot: l.Timeslot, Channel: l.Channel}
	}
	return cells
}
