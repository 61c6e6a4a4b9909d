package graph

import (
	"slices"

	"github.com/matzehuels/nodetree/pkg/geom"
)

// Default node geometry and port naming.
const (
	// DefaultWidth is the hit-testing width of every node.
	DefaultWidth = 150
	// DefaultHeight is the hit-testing height of every node.
	DefaultHeight = 100
	// PortKey is the key of the sole input and output port of built nodes.
	PortKey = "port"
)

// Socket types a port. Two ports are compatible when their sockets match.
type Socket struct {
	Name string
}

// DefaultSocket is the universal socket shared by all ports.
var DefaultSocket = Socket{Name: "socket"}

// Port is a named, typed attachment point on a node.
type Port struct {
	Key    string
	Socket Socket
}

// Node is a labeled vertex with a canvas position and a fixed size.
type Node struct {
	ID       string
	Label    string
	Position geom.Point
	Width    float32
	Height   float32
	Inputs   []Port
	Outputs  []Port
}

// NewNode returns a node with the default size and one input and one
// output port keyed [PortKey] on [DefaultSocket].
func NewNode(id, label string) *Node {
	return &Node{
		ID:      id,
		Label:   label,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Inputs:  []Port{{Key: PortKey, Socket: DefaultSocket}},
		Outputs: []Port{{Key: PortKey, Socket: DefaultSocket}},
	}
}

// Input returns the input port with the given key.
func (n *Node) Input(key string) (Port, bool) { return findPort(n.Inputs, key) }

// Output returns the output port with the given key.
func (n *Node) Output(key string) (Port, bool) { return findPort(n.Outputs, key) }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Inputs = slices.Clone(n.Inputs)
	c.Outputs = slices.Clone(n.Outputs)
	return &c
}

func findPort(ports []Port, key string) (Port, bool) {
	for _, p := range ports {
		if p.Key == key {
			return p, true
		}
	}
	return Port{}, false
}

// Connection links an output port of the source node to an input port of
// the target node.
type Connection struct {
	ID           string
	Source       string
	SourceOutput string
	Target       string
	TargetInput  string
}

// Connect returns a connection between the [PortKey] ports of two nodes.
func Connect(id string, source, target *Node) *Connection {
	return &Connection{
		ID:           id,
		Source:       source.ID,
		SourceOutput: PortKey,
		Target:       target.ID,
		TargetInput:  PortKey,
	}
}

// Clone returns a copy of the connection.
func (c *Connection) Clone() *Connection {
	cc := *c
	return &cc
}
