/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */
package executor

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/node"
	"github.com/gttsch/gtsf/table"
	"github.com/gttsch/gtsf/trace"
)

// SimConfig holds the settings of a simulation run.
type SimConfig struct {
	ProfilerConfig

	Version        string
	ConfigFileName string
	LogFile        string
	Nodes          int
	Fanout         int
	Rounds         int
	PcapFile       string
	// Hub, if set, is the bind address of a WebSocket medium the nodes attach to instead of the in-memory one.
	Hub            string
	PrintSchedules bool
}

// Sim runs a tree of nodes in one process, ticking them in lockstep rounds.
type Sim struct {
	config   *SimConfig
	profiler *Profiler

	medium *face.MemMedium
	hub    *face.WebSocketHub
	tracer *trace.PcapTracer

	links []face.Link
	nodes []*node.Node

	// settle is how long the medium must stay quiet before a round ends.
	settle time.Duration
}

// TreeParent returns the parent of node id in a tree rooted at node 1 where every node has fanout children.
func TreeParent(id uint16, fanout int) uint16 {
	if id <= 1 || fanout < 1 {
		return 0
	}
	return uint16((int(id)-2)/fanout + 1)
}

// NewSim loads the configuration and creates an empty simulation.
func NewSim(config *SimConfig) *Sim {
	core.Version = config.Version
	core.StartTimestamp = time.Now()

	if config.ConfigFileName != "" {
		core.LoadConfig(config.ConfigFileName)
	}
	core.InitializeLogger(config.LogFile)
	face.Configure()
	table.Configure()

	return &Sim{
		config:   config,
		profiler: NewProfiler(&config.ProfilerConfig),
	}
}

// hubURL returns the URL nodes dial to reach a hub bound to bind.
func hubURL(bind string) string {
	if strings.HasPrefix(bind, ":") {
		bind = "127.0.0.1" + bind
	}
	return "ws://" + bind + "/medium"
}

// StartHub serves the WebSocket medium in the background.
func (s *Sim) StartHub() {
	s.hub = face.NewWebSocketHub(s.config.Hub)
	go s.hub.Run()
	core.LogInfo("Main", "Serving medium on ", s.config.Hub)
}

func (s *Sim) attach(addr lladdr.Addr) (face.Link, error) {
	if s.hub == nil {
		if s.medium == nil {
			s.medium = face.NewMemMedium()
		}
		link, err := s.medium.Attach(addr)
		if err != nil {
			return nil, err
		}
		return link, nil
	}

	var err error
	for attempt := 0; attempt < 10; attempt++ {
		var link *face.WebSocketLink
		if link, err = face.DialWebSocketLink(addr, hubURL(s.config.Hub)); err == nil {
			return link, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil, err
}

// Setup creates the nodes. Node 1 is the coordinator.
func (s *Sim) Setup() error {
	base, err := node.LoadConfig()
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.settle = 20 * time.Millisecond
	}
	if s.config.PcapFile != "" {
		if s.tracer, err = trace.CreatePcapTracer(s.config.PcapFile); err != nil {
			return err
		}
	}

	for i := 1; i <= s.config.Nodes; i++ {
		cfg := base
		cfg.ID = uint16(i)
		cfg.Parent = TreeParent(cfg.ID, s.config.Fanout)
		cfg.Coordinator = cfg.Parent == 0
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}

		link, err := s.attach(lladdr.FromNodeID(cfg.ID))
		if err != nil {
			return fmt.Errorf("attaching node %d: %w", i, err)
		}
		s.links = append(s.links, link)
		n, err := node.New(cfg, link)
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if s.tracer != nil {
			n.SetTracer(s.tracer)
		}
		s.nodes = append(s.nodes, n)
	}
	core.LogInfo("Main", "Created ", len(s.nodes), " nodes with fanout ", s.config.Fanout)
	return nil
}

// Nodes returns the simulated nodes ordered by ID.
func (s *Sim) Nodes() []*node.Node {
	return s.nodes
}

// Round ticks every node once, then delivers frames until the medium is quiet.
func (s *Sim) Round() {
	now := time.Now()
	for _, n := range s.nodes {
		if err := n.Tick(now); err != nil {
			core.LogTrace(n, "Tick: ", err)
		}
	}

	quiet := time.Duration(0)
	for {
		handled := 0
		for _, n := range s.nodes {
			handled += n.Drain()
		}
		if handled > 0 {
			quiet = 0
			continue
		}
		if quiet >= s.settle {
			return
		}
		time.Sleep(time.Millisecond)
		quiet += time.Millisecond
	}
}

// Run runs the configured number of rounds.
func (s *Sim) Run() {
	if err := s.profiler.Start(); err != nil {
		core.LogError("Main", "Unable to start profiling: ", err)
	}
	for r := 1; r <= s.config.Rounds; r++ {
		s.Round()
		core.LogDebug("Main", "Round ", r, " done")
	}
	s.profiler.Stop()
}

// Report writes the state of every node to w.
func (s *Sim) Report(w io.Writer) {
	for _, n := range s.nodes {
		fmt.Fprintln(w, n.Status())
		if s.config.PrintSchedules {
			fmt.Fprint(w, n.Schedule().Print())
		}
	}
	if s.tracer != nil {
		fmt.Fprintln(w, "Captured", s.tracer.Count(), "frames to", s.config.PcapFile)
	}
}

// Close detaches every node and stops the hub.
func (s *Sim) Close() {
	for _, l := range s.links {
		l.Close()
	}
	if s.tracer != nil {
		s.tracer.Close()
	}
	if s.hub != nil {
		s.hub.Close()
	}
}
