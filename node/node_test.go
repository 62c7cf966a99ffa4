/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package node_test

import (
	"testing"
	"time"

	"github.com/gttsch/gtsf/core"
	"github.com/gttsch/gtsf/face"
	"github.com/gttsch/gtsf/lladdr"
	"github.com/gttsch/gtsf/node"
	"github.com/gttsch/gtsf/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T, m *face.MemMedium, id uint16, parent uint16, adjust func(c *node.Config)) *node.Node {
	cfg := node.DefaultConfig()
	cfg.ID = id
	cfg.Coordinator = parent == 0
	cfg.Parent = parent
	if adjust != nil {
		adjust(&cfg)
	}
	require.NoError(t, cfg.Validate())
	link, err := m.Attach(lladdr.FromNodeID(id))
	require.NoError(t, err)
	n, err := node.New(cfg, link)
	require.NoError(t, err)
	return n
}

// round ticks the given nodes in order, then delivers frames until the medium is quiet.
func round(nodes []*node.Node, all []*node.Node) {
	now := time.Now()
	for _, n := range nodes {
		n.Tick(now)
	}
	for {
		handled := 0
		for _, n := range all {
			handled += n.Drain()
		}
		if handled == 0 {
			return
		}
	}
}

func TestNewInstallsMinimal(t *testing.T) {
	m := face.NewMemMedium()
	coord := newNode(t, m, 1, 0, nil)
	sf := coord.Schedule().Slotframe(0)
	require.NotNil(t, sf)
	assert.Equal(t, 7, sf.Len())
	l := coord.Schedule().LinkByTimeslot(sf, 5, 0)
	require.NotNil(t, l)
	assert.Equal(t, schedule.KindAdvertising, l.Kind)
	assert.Equal(t, 25, coord.Engine().FreeUplinkTimeslots)
	assert.Equal(t, "Node, ID=1", coord.String())
	assert.Contains(t, coord.Status(), "children_channel=1")
}

func TestTwoNodeNegotiation(t *testing.T) {
	m := face.NewMemMedium()
	coord := newNode(t, m, 1, 0, nil)
	child := newNode(t, m, 2, 1, nil)
	all := []*node.Node{coord, child}

	for i := 0; i < 4; i++ {
		round(all, all)
	}

	ce := child.Engine()
	assert.Equal(t, 2, ce.AdvTimeslots)
	assert.Equal(t, uint16(1), ce.ParentChannel)
	assert.GreaterOrEqual(t, ce.ChildrenChannel, uint16(2))
	assert.Less(t, ce.ChildrenChannel, uint16(8))
	assert.True(t, ce.GenerationSatisfied)
	assert.Equal(t, 0, ce.RequiredSlots)

	sf := coord.Schedule().Slotframe(0)
	assert.True(t, coord.Schedule().CheckRX(sf, 4, 1))
	l := child.Schedule().LinkByTimeslot(child.Schedule().Slotframe(0), 4, 1)
	require.NotNil(t, l)
	assert.True(t, l.IsUplink())
	assert.True(t, l.Reserved)

	// 7 minimal, 2 advertising and 1 uplink cell.
	assert.Equal(t, 22, coord.Engine().FreeUplinkTimeslots)
	nbr := coord.Neighbors().Find(child.Addr())
	require.NotNil(t, nbr)
	assert.True(t, nbr.IsChild)
	assert.Equal(t, ce.ChildrenChannel, nbr.FrequencyOffset)
	assert.Zero(t, coord.Sixtop().Transactions())
	assert.Zero(t, child.Sixtop().Transactions())
}

func TestThreeNodeNegotiation(t *testing.T) {
	m := face.NewMemMedium()
	oneAdvLink := func(c *node.Config) { c.Params.AdvLinks = 1 }
	coord := newNode(t, m, 1, 0, oneAdvLink)
	relay := newNode(t, m, 2, 1, oneAdvLink)
	leaf := newNode(t, m, 3, 2, oneAdvLink)
	all := []*node.Node{coord, relay, leaf}

	for i := 0; i < 3; i++ {
		round([]*node.Node{coord, relay}, all)
	}
	re := relay.Engine()
	require.True(t, re.GenerationSatisfied)
	require.NotZero(t, re.ChildrenChannel)

	for i := 0; i < 5; i++ {
		round(all, all)
	}

	le := leaf.Engine()
	assert.Equal(t, re.ChildrenChannel, le.ParentChannel)
	assert.NotZero(t, le.ChildrenChannel)
	assert.True(t, le.GenerationSatisfied)
	assert.Equal(t, 0, le.RequiredSlots)

	// The relay was refused at first, borrowed one more uplink from the coordinator and paid the leaf back.
	assert.Equal(t, 0, re.Backlog.Pending())
	assert.Equal(t, 0, re.RequiredSlots)
	assert.Equal(t, 0, re.FreeUplinkTimeslots)

	rs := relay.Schedule()
	rsf := rs.Slotframe(0)
	assert.True(t, rs.CheckRX(rsf, 4, re.ChildrenChannel))
	assert.NotNil(t, rs.LinkByTimeslot(rsf, 6, 1))
	lsf := leaf.Schedule().Slotframe(0)
	l := leaf.Schedule().LinkByTimeslot(lsf, 4, re.ChildrenChannel)
	require.NotNil(t, l)
	assert.True(t, l.IsUplink())

	csf := coord.Schedule().Slotframe(0)
	assert.True(t, coord.Schedule().CheckRX(csf, 3, 1))
	assert.True(t, coord.Schedule().CheckRX(csf, 6, 1))
}

func TestRunQuit(t *testing.T) {
	m := face.NewMemMedium()
	n := newNode(t, m, 1, 0, func(c *node.Config) { c.TickInterval = time.Hour })
	go n.Run()
	n.TellToQuit()
	select {
	case <-n.HasQuit:
	case <-time.After(5 * time.Second):
		t.Fatal("node did not quit")
	}
}

func TestConfig(t *testing.T) {
	cfg := node.DefaultConfig()
	assert.ErrorIs(t, cfg.Validate(), node.ErrNoNodeID)
	cfg.ID = 4
	assert.ErrorIs(t, cfg.Validate(), node.ErrNoParent)
	cfg.Parent = 1
	assert.NoError(t, cfg.Validate())

	defer core.ResetConfig()
	require.NoError(t, core.LoadConfigString(`
[node]
id = 4
parent = 2
parent_channel = 3
tick_ms = 250
[gtsf]
adv_links = 1
`))
	cfg, err := node.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint16(4), cfg.ID)
	assert.False(t, cfg.Coordinator)
	assert.Equal(t, uint16(2), cfg.Parent)
	assert.Equal(t, uint16(3), cfg.ParentChannel)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 1, cfg.Params.AdvLinks)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	defer core.ResetConfig()
	for _, doc := range []string{
		"[node]\nid = 70000\n",
		"[node]\nparent = -2\n",
		"[node]\ncoordinator = 1\n",
		"[node]\ntick_ms = 0\n",
		"[gtsf]\nslotframe_length = 0\n",
	} {
		require.NoError(t, core.LoadConfigString(doc), doc)
		_, err := node.LoadConfig()
		assert.ErrorIs(t, err, core.ErrBadConfig, doc)
	}
}
