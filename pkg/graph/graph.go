package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation names a node that is not
	// in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNodeConnected is returned by [Graph.RemoveNode] while connections
	// still reference the node. Remove the connections first.
	ErrNodeConnected = errors.New("node still has connections")

	// ErrInvalidConnectionID is returned by [Graph.AddConnection] when the
	// connection ID is empty.
	ErrInvalidConnectionID = errors.New("connection ID must not be empty")

	// ErrDuplicateConnectionID is returned by [Graph.AddConnection] when a
	// connection with the same ID already exists.
	ErrDuplicateConnectionID = errors.New("duplicate connection ID")

	// ErrUnknownConnection is returned by [Graph.RemoveConnection] when the
	// connection is not in the graph.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrUnknownSourceNode is returned by [Graph.AddConnection] when the
	// Source node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddConnection] when the
	// Target node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownPort is returned by [Graph.AddConnection] when the source
	// output or target input port does not exist on its node.
	ErrUnknownPort = errors.New("unknown port")

	// ErrIncompatibleSockets is returned by [Graph.AddConnection] when the
	// two ports are typed by different sockets.
	ErrIncompatibleSockets = errors.New("incompatible sockets")

	// ErrDanglingConnection is returned by [Graph.Validate] when a connection
	// references a node that doesn't exist. This indicates graph corruption.
	ErrDanglingConnection = errors.New("connection references a missing node")
)

// Graph is the live set of nodes and connections shown by an editor.
// Nodes and connections are kept in insertion order.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	conns     map[string]*Connection
	connOrder []string
	outgoing  map[string][]string // nodeID -> connection IDs leaving it
	incoming  map[string][]string // nodeID -> connection IDs entering it
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		conns:    make(map[string]*Connection),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return nil
}

// RemoveNode removes the node with the given ID.
// Returns ErrUnknownNode if it does not exist, or ErrNodeConnected if any
// connection still references it.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	if len(g.outgoing[id]) > 0 || len(g.incoming[id]) > 0 {
		return ErrNodeConnected
	}
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	return nil
}

// AddConnection adds a connection between two existing nodes.
// Both endpoint nodes and ports must exist and the port sockets must match.
func (g *Graph) AddConnection(c *Connection) error {
	if c == nil || c.ID == "" {
		return ErrInvalidConnectionID
	}
	if _, exists := g.conns[c.ID]; exists {
		return ErrDuplicateConnectionID
	}
	src, ok := g.nodes[c.Source]
	if !ok {
		return ErrUnknownSourceNode
	}
	dst, ok := g.nodes[c.Target]
	if !ok {
		return ErrUnknownTargetNode
	}
	out, ok := src.Output(c.SourceOutput)
	if !ok {
		return ErrUnknownPort
	}
	in, ok := dst.Input(c.TargetInput)
	if !ok {
		return ErrUnknownPort
	}
	if out.Socket != in.Socket {
		return ErrIncompatibleSockets
	}
	g.conns[c.ID] = c
	g.connOrder = append(g.connOrder, c.ID)
	g.outgoing[c.Source] = append(g.outgoing[c.Source], c.ID)
	g.incoming[c.Target] = append(g.incoming[c.Target], c.ID)
	return nil
}

// RemoveConnection removes the connection with the given ID.
// Returns ErrUnknownConnection if it does not exist.
func (g *Graph) RemoveConnection(id string) error {
	c, ok := g.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	isID := func(s string) bool { return s == id }
	delete(g.conns, id)
	g.connOrder = slices.DeleteFunc(g.connOrder, isID)
	g.outgoing[c.Source] = slices.DeleteFunc(g.outgoing[c.Source], isID)
	g.incoming[c.Target] = slices.DeleteFunc(g.incoming[c.Target], isID)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the node in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Connection returns the connection with the given ID and true, or nil and
// false if not found.
func (g *Graph) Connection(id string) (*Connection, bool) {
	c, ok := g.conns[id]
	return c, ok
}

// Nodes returns all nodes in insertion order. The slice is new but the node
// pointers refer to the graph's nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Connections returns all connections in insertion order.
func (g *Graph) Connections() []*Connection {
	conns := make([]*Connection, len(g.connOrder))
	for i, id := range g.connOrder {
		conns[i] = g.conns[id]
	}
	return conns
}

// NodeIDs returns the IDs of all nodes in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.nodeOrder) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// ConnectionCount returns the number of connections in the graph.
func (g *Graph) ConnectionCount() int { return len(g.conns) }

// Children returns the IDs of the nodes this node connects to, in
// connection order. Returns nil if there are none.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, cid := range g.outgoing[id] {
		out = append(out, g.conns[cid].Target)
	}
	return out
}

// Parents returns the IDs of the nodes connecting to this node.
func (g *Graph) Parents(id string) []string {
	var out []string
	for _, cid := range g.incoming[id] {
		out = append(out, g.conns[cid].Source)
	}
	return out
}

// Roots returns nodes with no incoming connections, in insertion order.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, id := range g.nodeOrder {
		if len(g.incoming[id]) == 0 {
			roots = append(roots, g.nodes[id])
		}
	}
	return roots
}

// Validate checks that every connection references existing nodes.
// Returns ErrDanglingConnection otherwise.
func (g *Graph) Validate() error {
	for _, c := range g.conns {
		if _, ok := g.nodes[c.Source]; !ok {
			return ErrDanglingConnection
		}
		if _, ok := g.nodes[c.Target]; !ok {
			return ErrDanglingConnection
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
