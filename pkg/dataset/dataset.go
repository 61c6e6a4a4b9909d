package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/nodetree/pkg/errors"
)

// Entry is one key of a data set with its leaf labels or nested keys.
// At most one of Leaves and Children is set.
type Entry struct {
	Key      string
	Leaves   []string
	Children Tree
}

// Tree is an ordered data set.
type Tree []Entry

// Keys returns the top-level keys in order.
func (t Tree) Keys() []string {
	keys := make([]string, len(t))
	for i, e := range t {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the entry for key.
func (t Tree) Lookup(key string) (Entry, bool) {
	for _, e := range t {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Depth returns the number of key levels, not counting leaves.
func (t Tree) Depth() int {
	d := 0
	for _, e := range t {
		d = max(d, 1+e.Children.Depth())
	}
	return d
}

// Count returns the number of keys and leaves in the tree.
func (t Tree) Count() int {
	n := 0
	for _, e := range t {
		n += 1 + len(e.Leaves) + e.Children.Count()
	}
	return n
}

// Validate checks a tree built in code: keys must be non-empty and unique
// among siblings, and an entry cannot carry both leaves and children.
func (t Tree) Validate() error {
	return t.validate(nil)
}

func (t Tree) validate(path []string) error {
	seen := make(map[string]bool, len(t))
	for _, e := range t {
		p := append(append([]string(nil), path...), e.Key)
		if e.Key == "" {
			return invalid(p, "empty key")
		}
		if seen[e.Key] {
			return invalid(p, "duplicate key")
		}
		seen[e.Key] = true
		if len(e.Leaves) > 0 && len(e.Children) > 0 {
			return invalid(p, "both leaves and children")
		}
		if err := e.Children.validate(p); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads a YAML or JSON data set.
func Parse(data []byte) (Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDataset, err, "parse data set")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Tree{}, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return Tree{}, nil
	}
	return parseMapping(root, nil)
}

// Load reads the data set at path.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "data set %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read data set %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func parseMapping(n *yaml.Node, path []string) (Tree, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, invalidAt(n, path, "expected a mapping, got %s", kindName(n))
	}
	t := make(Tree, 0, len(n.Content)/2)
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := resolve(n.Content[i]), resolve(n.Content[i+1])
		if kn.Kind != yaml.ScalarNode {
			return nil, invalidAt(kn, path, "keys must be scalars, got %s", kindName(kn))
		}
		p := append(append([]string(nil), path...), kn.Value)
		if kn.Value == "" {
			return nil, invalidAt(kn, p, "empty key")
		}
		if seen[kn.Value] {
			return nil, invalidAt(kn, p, "duplicate key")
		}
		seen[kn.Value] = true

		e := Entry{Key: kn.Value}
		switch vn.Kind {
		case yaml.SequenceNode:
			leaves, err := parseLeaves(vn, p)
			if err != nil {
				return nil, err
			}
			e.Leaves = leaves
		case yaml.MappingNode:
			children, err := parseMapping(vn, p)
			if err != nil {
				return nil, err
			}
			e.Children = children
		case yaml.ScalarNode:
			if vn.Tag != "!!null" {
				return nil, invalidAt(vn, p, "value must be a list or a mapping, got scalar %q", vn.Value)
			}
		default:
			return nil, invalidAt(vn, p, "unsupported value %s", kindName(vn))
		}
		t = append(t, e)
	}
	return t, nil
}

func parseLeaves(n *yaml.Node, path []string) ([]string, error) {
	leaves := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
			return nil, invalidAt(item, path, "leaf %d must be a label, got %s", i, kindName(item))
		}
		leaves = append(leaves, item.Value)
	}
	return leaves, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	case yaml.DocumentNode:
		return "document"
	}
	return "alias"
}

func invalidAt(n *yaml.Node, path []string, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return apperrors.New(apperrors.ErrCodeInvalidDataset, "%s (line %d): %s", keyPath(path), n.Line, msg)
}

func invalid(path []string, msg string) error {
	return apperrors.New(apperrors.ErrCodeInvalidDataset, "%s: %s", keyPath(path), msg)
}

func keyPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}

// MarshalJSON encodes the tree as a JSON object in key order.
func (t Tree) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	if err := t.writeJSON(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (t Tree) writeJSON(b *bytes.Buffer) error {
	b.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return err
		}
		b.Write(k)
		b.WriteByte(':')
		switch {
		case e.Leaves != nil:
			v, err := json.Marshal(e.Leaves)
			if err != nil {
				return err
			}
			b.Write(v)
		case e.Children != nil:
			if err := e.Children.writeJSON(b); err != nil {
				return err
			}
		default:
			b.WriteString("null")
		}
	}
	b.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes an ordered JSON object.
func (t *Tree) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes the tree as an ordered YAML mapping.
func (t Tree) MarshalYAML() (any, error) {
	return t.node(), nil
}

func (t Tree) node() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range t {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		var v *yaml.Node
		switch {
		case e.Leaves != nil:
			v = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
			for _, l := range e.Leaves {
				v.Content = append(v.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l})
			}
		case e.Children != nil:
			v = e.Children.node()
		default:
			v = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		m.Content = append(m.Content, k, v)
	}
	return m
}
