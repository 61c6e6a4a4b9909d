package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/nodetree/pkg/geom"
)

// Snapshot is the JSON export format of a graph at one instant.
// Nodes and connections keep the graph's insertion order.
type Snapshot struct {
	Nodes       []NodeRecord       `json:"nodes"`
	Connections []ConnectionRecord `json:"connections"`
}

// NodeRecord is the serialized form of a [Node].
type NodeRecord struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Width    float32 `json:"width"`
	Height   float32 `json:"height"`
	Selected bool    `json:"selected,omitempty"`
}

// ConnectionRecord is the serialized form of a [Connection].
type ConnectionRecord struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceOutput string `json:"source_output"`
	Target       string `json:"target"`
	TargetInput  string `json:"target_input"`
}

// NewSnapshot builds a snapshot from node and connection lists.
func NewSnapshot(nodes []*Node, conns []*Connection) Snapshot {
	s := Snapshot{
		Nodes:       make([]NodeRecord, len(nodes)),
		Connections: make([]ConnectionRecord, len(conns)),
	}
	for i, n := range nodes {
		s.Nodes[i] = NodeRecord{
			ID:     n.ID,
			Label:  n.Label,
			X:      n.Position.X,
			Y:      n.Position.Y,
			Width:  n.Width,
			Height: n.Height,
		}
	}
	for i, c := range conns {
		s.Connections[i] = ConnectionRecord{
			ID:           c.ID,
			Source:       c.Source,
			SourceOutput: c.SourceOutput,
			Target:       c.Target,
			TargetInput:  c.TargetInput,
		}
	}
	return s
}

// Snapshot returns the graph's current snapshot.
func (g *Graph) Snapshot() Snapshot {
	return NewSnapshot(g.Nodes(), g.Connections())
}

// Position returns the node record's position.
func (r NodeRecord) Position() geom.Point { return geom.Pt(r.X, r.Y) }

// WriteJSON writes the snapshot as indented JSON.
func (s Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Shape returns a canonical, identifier-free description of the snapshot:
// one line per node ("label@x,y") and per connection
// ("label@x,y -> label@x,y"), sorted. Two snapshots with equal shapes
// describe isomorphic graphs with the same labels and positions.
func (s Snapshot) Shape() []string {
	names := make(map[string]string, len(s.Nodes))
	lines := make([]string, 0, len(s.Nodes)+len(s.Connections))
	for _, n := range s.Nodes {
		name := fmt.Sprintf("%s@%g,%g", n.Label, n.X, n.Y)
		names[n.ID] = name
		lines = append(lines, name)
	}
	for _, c := range s.Connections {
		lines = append(lines, names[c.Source]+" -> "+names[c.Target])
	}
	slices.Sort(lines)
	return lines
}
