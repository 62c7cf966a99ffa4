/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */
package executor

import (
	"strconv"
	"strings"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/node"
	"github.com/gttsch/gtsf/table"
	"github.com/gttsch/gtsf/trace"
)

// GtsfdConfig holds the command line settings of the daemon. Zero values leave the configuration file in charge.
type GtsfdConfig struct {
	ProfilerConfig

	Version        string
	ConfigFileName string
	LogFile        string
	NodeID         uint
	Coordinator    bool
	Parent         uint
	Link           string
}

// Gtsfd runs a single node attached to a UDP or WebSocket link.
// Note: only one instance should be created per process, since the configuration and logger are global.
type Gtsfd struct {
	config   *GtsfdConfig
	profiler *Profiler

	link   face.Link
	node   *node.Node
	tracer *trace.PcapTracer
}

// NewGtsfd loads the configuration and creates the daemon.
func NewGtsfd(config *GtsfdConfig) *Gtsfd {
	core.Version = config.Version
	core.StartTimestamp = time.Now()

	if config.ConfigFileName != "" {
		core.LoadConfig(config.ConfigFileName)
	}
	core.InitializeLogger(config.LogFile)
	face.Configure()
	table.Configure()

	return &Gtsfd{
		config:   config,
		profiler: NewProfiler(&config.ProfilerConfig),
	}
}

// nodeConfig merges the command line into the node settings.
func (g *Gtsfd) nodeConfig() node.Config {
	cfg, err := node.LoadConfig()
	if err != nil {
		core.LogFatal("Main", "Invalid scheduling function parameters: ", err)
	}
	if g.config.NodeID != 0 {
		cfg.ID = uint16(g.config.NodeID)
	}
	if g.config.Coordinator {
		cfg.Coordinator = true
		cfg.Parent = 0
	}
	if g.config.Parent != 0 {
		cfg.Parent = uint16(g.config.Parent)
	}
	if err := cfg.Validate(); err != nil {
		core.LogFatal("Main", "Invalid node configuration: ", err)
	}
	return cfg
}

func (g *Gtsfd) createLink(addr lladdr.Addr) face.Link {
	kind := g.config.Link
	if kind == "" {
		kind = core.GetConfigStringDefault("faces.link", "udp")
	}

	switch kind {
	case "udp":
		link, err := face.NewUDPLink(addr, ":"+strconv.Itoa(int(face.UDPPort)))
		if err != nil {
			core.LogFatal("Main", "Unable to create UDP link: ", err)
		}
		for _, peer := range core.GetConfigArrayString("faces.udp.peers") {
			id, endpoint, ok := strings.Cut(peer, "@")
			nodeID, err := strconv.ParseUint(id, 10, 16)
			if !ok || err != nil {
				core.LogFatal("Main", "Invalid UDP peer ", peer, " (expected <node id>@<host:port>)")
			}
			if err := link.AddPeer(lladdr.FromNodeID(uint16(nodeID)), endpoint); err != nil {
				core.LogFatal("Main", "Unable to add UDP peer ", peer, ": ", err)
			}
		}
		return link
	case "websocket":
		link, err := face.DialWebSocketLink(addr, face.WebSocketURL)
		if err != nil {
			core.LogFatal("Main", "Unable to connect to medium hub at ", face.WebSocketURL, ": ", err)
		}
		return link
	default:
		core.LogFatal("Main", "Unknown link type ", kind)
		return nil
	}
}

// Start creates the node and runs it in the background. Note: this function may exit the program on error.
func (g *Gtsfd) Start() {
	core.LogInfo("Main", "Starting GTSF daemon")
	if err := g.profiler.Start(); err != nil {
		core.LogError("Main", "Unable to start profiling: ", err)
	}

	cfg := g.nodeConfig()
	g.link = g.createLink(lladdr.FromNodeID(cfg.ID))

	var err error
	g.node, err = node.New(cfg, g.link)
	if err != nil {
		core.LogFatal("Main", "Unable to create node: ", err)
	}

	if file := core.GetConfigStringDefault("trace.pcap_file", ""); file != "" {
		g.tracer, err = trace.CreatePcapTracer(file)
		if err != nil {
			core.LogFatal("Main", "Unable to create capture file: ", err)
		}
		g.node.SetTracer(g.tracer)
		core.LogInfo("Main", "Capturing frames to ", file)
	}

	go g.node.Run()
	core.LogInfo("Main", "Started ", g.node.Status())
}

// Stop stops the node and releases its link.
func (g *Gtsfd) Stop() {
	core.LogInfo("Main", "Stopping GTSF daemon")
	g.node.TellToQuit()
	<-g.node.HasQuit
	core.LogInfo("Main", "Final state: ", g.node.Status())
	core.LogDebug("Main", "Final schedule:\n", g.node.Schedule().Print())

	if err := g.link.Close(); err != nil {
		core.LogWarn("Main", "Unable to close link: ", err)
	}
	if g.tracer != nil {
		core.LogInfo("Main", "Captured ", g.tracer.Count(), " frames")
		g.tracer.Close()
	}
	g.profiler.Stop()
	core.ShutdownLogger()
}
