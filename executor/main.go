/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */
package executor

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gttsch/gtsf/core"
)

func printVersion(name string, version string) {
	fmt.Fprintln(os.Stderr, name+": GT-TSCH Scheduling Function")
	fmt.Fprintln(os.Stderr, "Version "+version+" (Built "+core.BuildTime+")")
	fmt.Fprintln(os.Stderr, "Copyright (C) 2020-2021 Eric Newberry")
	fmt.Fprintln(os.Stderr, "Released under the terms of the MIT License")
}

func waitForSignal() {
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-sigChannel
	core.LogInfo("Main", "Received signal ", receivedSig, " - exiting")
}

// Main runs the single-node daemon.
func Main(args []string, version string) {
	config := &GtsfdConfig{Version: version}

	flagset := flag.NewFlagSet("gtsfd", flag.ExitOnError)
	flagset.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", args[0])
		flagset.PrintDefaults()
	}

	var shouldPrintVersion bool
	flagset.BoolVar(&shouldPrintVersion, "version", false, "Print version and exit")
	flagset.BoolVar(&shouldPrintVersion, "V", false, "Print version and exit (short)")
	flagset.StringVar(&config.ConfigFileName, "config", "", "Configuration file")
	flagset.StringVar(&config.LogFile, "log-file", "", "Write logs to the specified file instead of stdout")
	flagset.UintVar(&config.NodeID, "id", 0, "Node ID (overrides node.id)")
	flagset.BoolVar(&config.Coordinator, "coordinator", false, "Run as the network coordinator")
	flagset.UintVar(&config.Parent, "parent", 0, "Node ID of the time source (overrides node.parent)")
	flagset.StringVar(&config.Link, "link", "", "Link type: udp or websocket (overrides faces.link)")
	flagset.StringVar(&config.CpuProfile, "cpu-profile", "", "Enable CPU profiling (output to specified file)")
	flagset.StringVar(&config.MemProfile, "mem-profile", "", "Enable memory profiling (output to specified file)")
	flagset.StringVar(&config.BlockProfile, "block-profile", "", "Enable block profiling (output to specified file)")
	flagset.Parse(args[1:])

	if shouldPrintVersion {
		printVersion("gtsfd", version)
		return
	}
	if config.NodeID > 0xffff || config.Parent > 0xffff {
		fmt.Fprintln(os.Stderr, "Node IDs must be in range [1, 65535]")
		flagset.Usage()
		os.Exit(2)
	}

	gtsfd := NewGtsfd(config)
	gtsfd.Start()
	waitForSignal()
	gtsfd.Stop()
}

// SimMain runs a multi-node simulation, or serves only the WebSocket medium when no nodes are requested.
func SimMain(args []string, version string) {
	config := &SimConfig{Version: version}

	flagset := flag.NewFlagSet("gtsfsim", flag.ExitOnError)
	flagset.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", args[0])
		flagset.PrintDefaults()
	}

	var shouldPrintVersion bool
	flagset.BoolVar(&shouldPrintVersion, "version", false, "Print version and exit")
	flagset.StringVar(&config.ConfigFileName, "config", "", "Configuration file")
	flagset.StringVar(&config.LogFile, "log-file", "", "Write logs to the specified file instead of stdout")
	flagset.IntVar(&config.Nodes, "nodes", 7, "Number of nodes; node 1 is the coordinator")
	flagset.IntVar(&config.Fanout, "fanout", 2, "Children per node")
	flagset.IntVar(&config.Rounds, "rounds", 30, "Number of negotiation rounds")
	flagset.StringVar(&config.PcapFile, "pcap", "", "Capture every frame sent or received by any node to the specified file")
	flagset.StringVar(&config.Hub, "hub", "", "Serve a WebSocket medium on the specified address and attach the nodes to it")
	flagset.BoolVar(&config.PrintSchedules, "print", false, "Print the schedule of every node after the run")
	flagset.StringVar(&config.CpuProfile, "cpu-profile", "", "Enable CPU profiling (output to specified file)")
	flagset.StringVar(&config.MemProfile, "mem-profile", "", "Enable memory profiling (output to specified file)")
	flagset.StringVar(&config.BlockProfile, "block-profile", "", "Enable block profiling (output to specified file)")
	flagset.Parse(args[1:])

	if shouldPrintVersion {
		printVersion("gtsfsim", version)
		return
	}
	if config.Nodes < 0 || config.Nodes > 0xffff || config.Fanout < 1 || config.Rounds < 0 {
		flagset.Usage()
		os.Exit(2)
	}

	sim := NewSim(config)
	defer core.ShutdownLogger()
	if config.Hub != "" {
		sim.StartHub()
		if config.Nodes == 0 {
			waitForSignal()
			sim.Close()
			return
		}
	}

	if err := sim.Setup(); err != nil {
		core.LogFatal("Main", "Unable to set up simulation: ", err)
	}
	sim.Run()
	sim.Report(os.Stdout)
	sim.Close()
}
