/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */
package node

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/gtsf"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/schedule"
	"github.com/gttsch/gtsf/sixtop"
	"github.com/gttsch/gtsf/table"
)

// Node is one TSCH node: its schedule, its 6P transaction layer and the scheduling function, attached to a link.
type Node struct {
	cfg  Config
	link face.Link

	sched  *schedule.Schedule
	nbrs   *table.NeighborTable
	meas   *table.Measurements
	sixtop *sixtop.Sixtop
	engine *gtsf.Engine

	shouldQuit chan interface{}
	HasQuit    chan interface{}
}

// New creates a node on link and installs its minimal schedule.
func New(cfg Config, link face.Link) (*Node, error) {
	n := &Node{
		cfg:        cfg,
		link:       link,
		nbrs:       table.NewNeighborTable(),
		meas:       table.NewMeasurements(),
		sixtop:     sixtop.New(link),
		shouldQuit: make(chan interface{}, 1),
		HasQuit:    make(chan interface{}),
	}
	n.sched = schedule.New(&schedule.Accounting{Coordinator: cfg.Coordinator}, n.nbrs)
	n.engine = gtsf.New(cfg.Params, link.LocalAddr(), n.sched, n.nbrs, n.meas)
	n.engine.SetTransport(n.sixtop)
	if !cfg.Coordinator && cfg.Parent != 0 {
		n.engine.SetTimeSource(lladdr.FromNodeID(cfg.Parent), cfg.ParentChannel)
	}

	// Registering the scheduling function initializes it; the minimal schedule depends on that state.
	if err := n.sixtop.AddSF(n.engine); err != nil {
		return nil, fmt.Errorf("registering scheduling function: %w", err)
	}
	if _, err := n.sched.CreateMinimal(cfg.Params.SlotframeLength, cfg.Params.DefaultChannel); err != nil {
		return nil, fmt.Errorf("creating minimal schedule: %w", err)
	}
	core.LogInfo(n, "Created on ", link)
	return n, nil
}

func (n *Node) String() string {
	return "Node, ID=" + strconv.Itoa(int(n.link.LocalAddr().NodeID()))
}

// Addr returns the link-layer address of the node.
func (n *Node) Addr() lladdr.Addr {
	return n.link.LocalAddr()
}

// Engine returns the scheduling function of the node.
func (n *Node) Engine() *gtsf.Engine {
	return n.engine
}

// Schedule returns the schedule of the node.
func (n *Node) Schedule() *schedule.Schedule {
	return n.sched
}

// Neighbors returns the neighbor table of the node.
func (n *Node) Neighbors() *table.NeighborTable {
	return n.nbrs
}

// Sixtop returns the transaction layer of the node.
func (n *Node) Sixtop() *sixtop.Sixtop {
	return n.sixtop
}

// SetTracer records every frame sent or received by the node.
func (n *Node) SetTracer(t sixtop.Tracer) {
	n.sixtop.SetTracer(t)
}

// HandleFrame processes a received frame and runs the continuations it triggered.
func (n *Node) HandleFrame(f face.Frame) {
	n.sixtop.HandleFrame(f)
	n.sixtop.Flush()
}

// Drain processes every frame already queued on the link without blocking and returns how many were handled.
func (n *Node) Drain() int {
	count := 0
	for {
		select {
		case f, ok := <-n.link.Incoming():
			if !ok {
				return count
			}
			n.HandleFrame(f)
			count++
		default:
			return count
		}
	}
}

// Tick expires overdue transactions and runs one negotiation step.
func (n *Node) Tick(now time.Time) error {
	if expired := n.sixtop.Expire(now); expired > 0 {
		core.LogDebug(n, expired, " transactions timed out")
	}
	err := n.engine.Tick()
	n.sixtop.Flush()
	return err
}

// Status returns a one-line summary of the negotiation state.
func (n *Node) Status() string {
	e := n.engine
	return n.String() + " " + e.Accounting.String() + " children_channel=" + strconv.Itoa(int(e.ChildrenChannel)) +
		" adv=" + strconv.Itoa(e.AdvTimeslots) + " owed=" + strconv.Itoa(e.Backlog.Pending()) +
		" neighbors=" + strconv.Itoa(n.nbrs.Len())
}

// TellToQuit tells the node to stop running.
func (n *Node) TellToQuit() {
	core.LogInfo(n, "Told to quit")
	n.shouldQuit <- true
}

// Run processes frames and ticks until told to quit or the link goes down.
func (n *Node) Run() {
	ticker := time.NewTicker(n.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case f, ok := <-n.link.Incoming():
			if !ok {
				core.LogInfo(n, "Link down - quitting")
				n.HasQuit <- true
				return
			}
			n.HandleFrame(f)
		case now := <-ticker.C:
			if err := n.Tick(now); err != nil {
				n.logTickError(err)
			}
		case <-n.shouldQuit:
			n.HasQuit <- true
			return
		}
	}
}

func (n *Node) logTickError(err error) {
	switch {
	case errors.Is(err, gtsf.ErrBackoff), errors.Is(err, gtsf.ErrNoCells):
		core.LogTrace(n, "Tick: ", err)
	default:
		core.LogDebug(n, "Tick: ", err)
	}
}
