package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/matzehuels/nodetree/pkg/geom"
)

func chain(t *testing.T) (*Graph, *Node, *Node, *Node) {
	t.Helper()
	g := New()
	a, b, c := NewNode("a", "A"), NewNode("b", "B"), NewNode("c", "C")
	for _, n := range []*Node{a, b, c} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	if err := g.AddConnection(Connect("ab", a, b)); err != nil {
		t.Fatalf("AddConnection(ab): %v", err)
	}
	if err := g.AddConnection(Connect("bc", b, c)); err != nil {
		t.Fatalf("AddConnection(bc): %v", err)
	}
	return g, a, b, c
}

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(NewNode("", "x")); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(nil); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("nil node: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(NewNode("a", "x")); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(NewNode("a", "y")); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: got %v, want ErrDuplicateNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddConnection(t *testing.T) {
	g := New()
	a, b := NewNode("a", "A"), NewNode("b", "B")
	_ = g.AddNode(a)
	_ = g.AddNode(b)

	tests := []struct {
		name string
		conn *Connection
		want error
	}{
		{"empty id", &Connection{Source: "a", SourceOutput: PortKey, Target: "b", TargetInput: PortKey}, ErrInvalidConnectionID},
		{"missing source", &Connection{ID: "x", Source: "z", SourceOutput: PortKey, Target: "b", TargetInput: PortKey}, ErrUnknownSourceNode},
		{"missing target", &Connection{ID: "x", Source: "a", SourceOutput: PortKey, Target: "z", TargetInput: PortKey}, ErrUnknownTargetNode},
		{"missing output port", &Connection{ID: "x", Source: "a", SourceOutput: "out", Target: "b", TargetInput: PortKey}, ErrUnknownPort},
		{"missing input port", &Connection{ID: "x", Source: "a", SourceOutput: PortKey, Target: "b", TargetInput: "in"}, ErrUnknownPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddConnection(tt.conn); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if err := g.AddConnection(Connect("ab", a, b)); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if err := g.AddConnection(Connect("ab", a, b)); !errors.Is(err, ErrDuplicateConnectionID) {
		t.Errorf("duplicate: got %v, want ErrDuplicateConnectionID", err)
	}
	if got := g.Children("a"); len(got) != 1 || got[0] != "b" {
		t.Errorf("Children(a) = %v, want [b]", got)
	}
	if got := g.Parents("b"); len(got) != 1 || got[0] != "a" {
		t.Errorf("Parents(b) = %v, want [a]", got)
	}
}

func TestIncompatibleSockets(t *testing.T) {
	g := New()
	a, b := NewNode("a", "A"), NewNode("b", "B")
	b.Inputs[0].Socket = Socket{Name: "number"}
	_ = g.AddNode(a)
	_ = g.AddNode(b)
	if err := g.AddConnection(Connect("ab", a, b)); !errors.Is(err, ErrIncompatibleSockets) {
		t.Errorf("got %v, want ErrIncompatibleSockets", err)
	}
}

func TestRemoveNodeRequiresConnectionsRemovedFirst(t *testing.T) {
	g, _, _, _ := chain(t)

	if err := g.RemoveNode("b"); !errors.Is(err, ErrNodeConnected) {
		t.Fatalf("RemoveNode(b) with connections: got %v, want ErrNodeConnected", err)
	}
	if err := g.RemoveNode("zz"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("RemoveNode(zz): got %v, want ErrUnknownNode", err)
	}

	for _, c := range g.Connections() {
		if err := g.RemoveConnection(c.ID); err != nil {
			t.Fatalf("RemoveConnection(%s): %v", c.ID, err)
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("Validate after removing %s: %v", c.ID, err)
		}
	}
	if err := g.RemoveConnection("ab"); !errors.Is(err, ErrUnknownConnection) {
		t.Errorf("second RemoveConnection: got %v, want ErrUnknownConnection", err)
	}
	for _, n := range g.Nodes() {
		if err := g.RemoveNode(n.ID); err != nil {
			t.Fatalf("RemoveNode(%s): %v", n.ID, err)
		}
	}
	if g.NodeCount() != 0 || g.ConnectionCount() != 0 {
		t.Errorf("graph not empty: %d nodes, %d connections", g.NodeCount(), g.ConnectionCount())
	}
}

func TestInsertionOrder(t *testing.T) {
	g, _, _, _ := chain(t)
	ids := g.NodeIDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("NodeIDs = %v, want %v", ids, want)
		}
	}
	_ = g.RemoveConnection("ab")
	_ = g.RemoveNode("a")
	if got := NodeIDs(g.Nodes()); len(got) != 2 || got[0] != "b" {
		t.Errorf("after removal NodeIDs = %v", got)
	}
	if roots := g.Roots(); len(roots) != 1 || roots[0].ID != "b" {
		t.Errorf("Roots = %v, want [b]", NodeIDs(roots))
	}
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("id", "")
	if n.Width != DefaultWidth || n.Height != DefaultHeight {
		t.Errorf("size = %vx%v", n.Width, n.Height)
	}
	if _, ok := n.Input(PortKey); !ok {
		t.Error("missing input port")
	}
	if p, ok := n.Output(PortKey); !ok || p.Socket != DefaultSocket {
		t.Errorf("output port = %+v, %v", p, ok)
	}
	if n.DisplayLabel() != "id" {
		t.Errorf("DisplayLabel = %q, want id", n.DisplayLabel())
	}

	c := n.Clone()
	c.Inputs[0].Key = "changed"
	if n.Inputs[0].Key != PortKey {
		t.Error("Clone shares port slices")
	}
}

func TestSnapshot(t *testing.T) {
	g, a, b, _ := chain(t)
	a.Position = geom.Pt(0, 0)
	b.Position = geom.Pt(-100, 300)

	s := g.Snapshot()
	if len(s.Nodes) != 3 || len(s.Connections) != 2 {
		t.Fatalf("snapshot has %d nodes, %d connections", len(s.Nodes), len(s.Connections))
	}
	if s.Nodes[1].X != -100 || s.Nodes[1].Y != 300 {
		t.Errorf("node b at %v,%v", s.Nodes[1].X, s.Nodes[1].Y)
	}
	if s.Nodes[1].Position() != b.Position {
		t.Errorf("Position() = %v", s.Nodes[1].Position())
	}

	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var raw map[string][]map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["connections"][0]["source_output"] != PortKey {
		t.Errorf("source_output = %v", raw["connections"][0]["source_output"])
	}
}

func TestShapeIgnoresIdentifiers(t *testing.T) {
	build := func(prefix string) Snapshot {
		ids := &SequentialIDs{Prefix: prefix}
		g := New()
		root := NewNode(ids.NewID(), "root")
		leaf := NewNode(ids.NewID(), "leaf")
		leaf.Position = geom.Pt(0, 300)
		_ = g.AddNode(root)
		_ = g.AddNode(leaf)
		_ = g.AddConnection(Connect(ids.NewID(), root, leaf))
		return g.Snapshot()
	}
	a, b := build("x"), build("y")
	sa, sb := a.Shape(), b.Shape()
	if len(sa) != 3 {
		t.Fatalf("Shape = %v", sa)
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Errorf("Shape[%d] = %q vs %q", i, sa[i], sb[i])
		}
	}
	if sa[2] != "root@0,0 -> leaf@0,300" {
		t.Errorf("edge line = %q", sa[2])
	}
}

func TestIDGenerators(t *testing.T) {
	seq := &SequentialIDs{Prefix: "n"}
	if seq.NewID() != "n1" || seq.NewID() != "n2" {
		t.Error("SequentialIDs should count from 1")
	}
	u := UUIDGenerator{}
	a, b := u.NewID(), u.NewID()
	if a == b || len(a) != 36 {
		t.Errorf("UUIDGenerator produced %q, %q", a, b)
	}
}
